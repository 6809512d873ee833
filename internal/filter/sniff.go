package filter

// Sniffer maps a content prefix to a FileType category. internal/sniff
// provides the default implementation wired in by cmd/pfind.
type Sniffer func(content []byte) (FileType, bool)
