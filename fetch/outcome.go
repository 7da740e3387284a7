package fetch

// ErrorKind categorizes why a fetch attempt failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidURL
	KindTimeout
	KindConnection
	KindHTTPStatus
	KindNotAnImage
	KindDuplicate
	KindFilesystem
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidURL:
		return "invalid url"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection error"
	case KindHTTPStatus:
		return "http error"
	case KindNotAnImage:
		return "not an image"
	case KindDuplicate:
		return "duplicate"
	case KindFilesystem:
		return "filesystem error"
	case KindUnexpected:
		return "unexpected error"
	}
	return "unknown"
}

// Outcome describes the result of a single fetch attempt. It is complete when
// returned and is never modified afterwards.
type Outcome struct {
	URL       string
	Success   bool
	SavedPath string   // Path of the saved file; set on success only.
	SizeBytes int      // Size of the downloaded content; set on success only.
	Warnings  []string // Advisory header warnings, in emission order.
	Kind      ErrorKind
	Status    int    // HTTP status code; set when Kind is KindHTTPStatus.
	Detail    string // Human-readable failure description.
}

// SizeKB returns the saved content size in kilobytes.
func (o *Outcome) SizeKB() float64 {
	return float64(o.SizeBytes) / 1024
}
