package model

// ImagePayload carries the raw bytes of an uploaded photograph together with
// the declared content type and size from the multipart part.
type ImagePayload struct {
	Data        []byte
	ContentType string
	Filename    string
	Size        int64
}

func (p ImagePayload) Empty() bool {
	return len(p.Data) == 0
}

// SchoolSubmission is the ephemeral, caller-constructed input to the
// ingestion pipeline. It is either fully valid or rejected outright; it is
// never persisted as-is.
type SchoolSubmission struct {
	Name    string
	Address string
	City    string
	State   string
	Contact string
	EmailID string
	Image   ImagePayload
}

type IngestResult struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}
