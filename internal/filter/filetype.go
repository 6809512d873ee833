package filter

// FileType is the coarse category produced by the content sniffer (see
// internal/sniff) and matched against by the Type filter.
type FileType int

const (
	TypeApp FileType = iota
	TypeArchive
	TypeAudio
	TypeBook
	TypeDoc
	TypeFont
	TypeImage
	TypeText
	TypeVideo
	TypeCustom
)

var fileTypeAliases = []aliasEntry[FileType]{
	{"Application", TypeApp},
	{"Archive", TypeArchive},
	{"Audio", TypeAudio},
	{"Book", TypeBook},
	{"Document", TypeDoc},
	{"Font", TypeFont},
	{"Image", TypeImage},
	{"Custom", TypeCustom},
	{"Video", TypeVideo},
	{"app", TypeApp},
	{"doc", TypeDoc},
	{"img", TypeImage},
	{"vid", TypeVideo},
	{"text", TypeText},
	{"t", TypeText},
}

func init() {
	sortAliasesByLengthDesc(fileTypeAliases)
}

func (t FileType) String() string {
	switch t {
	case TypeApp:
		return "app"
	case TypeArchive:
		return "archive"
	case TypeAudio:
		return "audio"
	case TypeBook:
		return "book"
	case TypeDoc:
		return "doc"
	case TypeFont:
		return "font"
	case TypeImage:
		return "image"
	case TypeText:
		return "text"
	case TypeVideo:
		return "video"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}
