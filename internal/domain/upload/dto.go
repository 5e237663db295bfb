package upload

// MaxFileSize is the largest accepted photo upload.
const MaxFileSize = 5 << 20

type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
