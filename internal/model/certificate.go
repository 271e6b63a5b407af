package model

// Certificate is an issued attendance certificate for a finished session.
type Certificate struct {
	ID              string `json:"id"`
	SessionID       string `json:"sessionid"`
	SessionName     string `json:"sessionname"`
	CourseName      string `json:"coursename"`
	IssueDate       int64  `json:"issuedate"`
	IssueDateString string `json:"issuedatestring"`
	FileURL         string `json:"fileurl"`
	Filename        string `json:"filename"`
	PreviewURL      string `json:"previewurl"`
}
