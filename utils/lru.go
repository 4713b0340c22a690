package utils

import (
	"container/list"
	"sync"
)

// Lru 定长LRU缓存，size <= 0 时不做淘汰
type Lru[K comparable, V any] struct {
	mu      sync.Mutex
	list    *list.List
	size    int
	m       map[K]*list.Element
	onEvict func(key K, value V)
}

type entry[K comparable, V any] struct {
	k K
	v V
}

func NewLRU[K comparable, V any](size int) *Lru[K, V] {
	return &Lru[K, V]{
		list: list.New(),
		size: size,
		m:    map[K]*list.Element{},
	}
}

// OnEvict 设置淘汰回调，在持有锁的情况下调用，回调内不能再访问lru
func (lru *Lru[K, V]) OnEvict(fn func(key K, value V)) *Lru[K, V] {
	lru.onEvict = fn
	return lru
}

func (lru *Lru[K, V]) Read(key K) (V, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	elem, exist := lru.m[key]
	if !exist {
		var zero V
		return zero, false
	}

	lru.list.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).v, true
}

func (lru *Lru[K, V]) Write(key K, data V) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if elem, exist := lru.m[key]; exist {
		lru.list.MoveToFront(elem)
		elem.Value = &entry[K, V]{k: key, v: data}
		return
	}

	lru.m[key] = lru.list.PushFront(&entry[K, V]{k: key, v: data})
	if lru.size > 0 && lru.list.Len() > lru.size {
		e := lru.list.Remove(lru.list.Back()).(*entry[K, V])
		delete(lru.m, e.k)
		if lru.onEvict != nil {
			lru.onEvict(e.k, e.v)
		}
	}
}

func (lru *Lru[K, V]) Remove(key K) (V, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	elem, exist := lru.m[key]
	if !exist {
		var zero V
		return zero, false
	}
	delete(lru.m, key)
	lru.list.Remove(elem)
	return elem.Value.(*entry[K, V]).v, true
}

func (lru *Lru[K, V]) Len() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return lru.list.Len()
}

// Traverse 遍历lru中的存储元素，对每个元素执行do方法
// 如果执行do方法过程中出现错误，Traverse 会根据 skipErr
// 决定是否忽略错误，即当 skipErr 为true时，Traverse 不会返回错误
// 当 skipErr 为false时，Traverse 会返回第一个出现的错误
func (lru *Lru[K, V]) Traverse(do func(key K, value V) error, skipErr bool) error {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	for e := lru.list.Front(); e != nil; e = e.Next() {
		item := e.Value.(*entry[K, V])
		if err := do(item.k, item.v); err != nil && !skipErr {
			return err
		}
	}

	return nil
}
