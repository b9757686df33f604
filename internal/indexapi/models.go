package indexapi

// SubmitRequest is the JSON body accepted by the IndexNow endpoint.
// Field order matches the documented wire format.
type SubmitRequest struct {
	Host    string   `json:"host"`
	Key     string   `json:"key"`
	URLList []string `json:"urlList"`
}

// SubmitResponse is the raw answer from the endpoint.
// The body is kept verbatim so rejections can be reported as-is.
type SubmitResponse struct {
	StatusCode int
	Body       string
}

// Accepted reports whether the endpoint took the submission.
func (r *SubmitResponse) Accepted() bool {
	return IsAccepted(r.StatusCode)
}
