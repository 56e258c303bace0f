package domain

// Image is the raw content fetched from the CDN.
type Image struct {
	Data        []byte
	ContentType string
}

// Download is an image ready to be offered as a file.
type Download struct {
	TraceID  string
	Filename string
	Image
}
