// Package fixtures provides sample inputs and upstream payloads for tests.
package fixtures

const (
	// SampleTraceID is the trace ID embedded in ThumbnailURL.
	SampleTraceID = "1040g00830t2hgqelk4005o49b2u097vri7c1ij8"

	// SampleHDURL is the derived URL for SampleTraceID.
	SampleHDURL = "https://sns-img-hw.xhscdn.com/1040g00830t2hgqelk4005o49b2u097vri7c1ij8?imageView2/2/w/format/png"

	// OtherTraceID is a second, distinct trace ID.
	OtherTraceID = "1040g2sg31abcdefghij05o49b2u097vri7c1xyz"
)

// ThumbnailURL is a webpic thumbnail as copied from the app.
func ThumbnailURL() string {
	return "https://sns-webpic-qc.xhscdn.com/202511292028/30ab642bea120348cf64a607c9eb8141/" + SampleTraceID + "!nd_dft_wlteh_webp_3"
}

// OtherThumbnailURL is a thumbnail for OtherTraceID.
func OtherThumbnailURL() string {
	return "https://sns-webpic-qc.xhscdn.com/202601010000/ffffffffffffffffffffffffffffffff/" + OtherTraceID + "!nd_prv_wlteh_webp_3"
}

// ShareSnippet is a chat message with the thumbnail URL buried in text.
func ShareSnippet() string {
	return "look at this 👀 " + ThumbnailURL() + " so good"
}

// BareTraceID is a trace ID pasted without any URL around it.
func BareTraceID() string {
	return SampleTraceID
}

// UnrelatedInputs contain no trace ID.
func UnrelatedInputs() []string {
	return []string{
		"hello world",
		"https://example.com/image.png",
		"https://sns-webpic-qc.xhscdn.com/202511292028/abc/1030g00830t2hgqelk4005!nd_dft",
		"1040g!",
		"1040",
	}
}

// PNGBytes is a 1x1 transparent PNG.
func PNGBytes() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}
}
