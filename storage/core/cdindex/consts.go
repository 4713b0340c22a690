package cdindex

const (
	// 字段长度，单位字节
	headerFileSizeSize    = 4
	headerRecordCountSize = 4
	headerRecordSizeSize  = 2
	headerDbNameSize      = 20
	headerReleaseSize     = 10
	headerDateSize        = 4

	// 字段偏移量，单位字节
	headerFileSizeOffset    = 0
	headerRecordCountOffset = 4
	headerRecordSizeOffset  = 8
	headerDbNameOffset      = 10
	headerReleaseOffset     = 30
	headerDateOffset        = 40

	// HeaderSize 索引文件头总长度，未使用部分保留
	HeaderSize = 300
)

const (
	divisionCodeSize = 2 // division.lkp 中 division 编号长度

	entryAnnOffsetSize = 4
	entrySeqOffsetSize = 4
	entryDivisionSize  = 2
	entryFixedSize     = entryAnnOffsetSize + entrySeqOffsetSize + entryDivisionSize

	targetNHitsSize    = 4
	targetFirstHitSize = 4
	targetFixedSize    = targetNHitsSize + targetFirstHitSize

	hitRecordSize = 4
)
