package blast

// 表文件头中的格式标记，所有整数均为大端
const (
	// BLAST 1.x 魔数
	magicProtein1 uint32 = 0x78857a4f
	magicDna1     uint32 = 0x78857a4e

	// BLAST 1.x 格式号
	formatProtein1 uint32 = 3
	formatDna1     uint32 = 6

	// BLAST 2.x 版本号
	version3 uint32 = 3
	version4 uint32 = 4

	// BLAST 2.x 序列类型
	typeDna     uint32 = 0
	typeProtein uint32 = 1
)

const (
	wordSize = 4

	// 1.x DNA 压缩序列两端的定相哨兵字节
	sentinel1 byte = 0xfc

	// 蛋白质序列之间的分隔字节
	proteinSeparator byte = 0
)

// Kind 一组 BLAST 文件的版本与类型
type Kind int

const (
	KindUnknown Kind = iota
	KindProtein2
	KindDna2
	KindProtein1
	KindDna1
)

func (k Kind) String() string {
	switch k {
	case KindProtein2:
		return "blast2-protein"
	case KindDna2:
		return "blast2-dna"
	case KindProtein1:
		return "blast1-protein"
	case KindDna1:
		return "blast1-dna"
	default:
		return "unknown"
	}
}

func (k Kind) Protein() bool {
	return k == KindProtein1 || k == KindProtein2
}

func (k Kind) Version() int {
	switch k {
	case KindProtein1, KindDna1:
		return 1
	case KindProtein2, KindDna2:
		return 2
	}
	return 0
}

// extensions 表 / 标题 / 序列 文件扩展名，按探测顺序
var extensions = []struct {
	kind             Kind
	table, hdr, seq string
}{
	{KindProtein2, ".pin", ".phr", ".psq"},
	{KindDna2, ".nin", ".nhr", ".nsq"},
	{KindProtein1, ".atb", ".ahd", ".asq"},
	{KindDna1, ".ntb", ".nhd", ".nsq"},
}

// 蛋白质字母表，编码超出字母表时解码为 X
const (
	alphabetProtein1 = "-ARNDCQEGHILKMFPSTWYVBZX*"
	alphabetProtein2 = "-ABCDEFGHIKLMNPQRSTVWXYZU*OJ"
	unknownResidue   = 'X'
	stopResidue      = '*'
)
