package utils

import (
	"github.com/Trinoooo/eggie_seqdb/consts"
	"os"
)

func Env() string {
	return os.Getenv(consts.Env)
}

func IsTest() bool {
	return Env() == "test"
}

func GetValueOnEnv[T any](prod, test T) T {
	if IsTest() {
		return test
	}
	return prod
}
