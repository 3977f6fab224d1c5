package simpleobjects

// ImageUpload carries the bytes and client-reported metadata of an uploaded
// image file.
type ImageUpload struct {
	Data        []byte
	ContentType string
	FileName    string
}

// CreateObjectRequest contains the parameters for creating an object. Image
// is optional; when nil the record is created without an image URL.
type CreateObjectRequest struct {
	Title       string
	Description string
	Image       *ImageUpload
}
