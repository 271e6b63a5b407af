package model

// Instructor identifies who is running a live class.
type Instructor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Session is one scheduled live-class occurrence as presented on the
// dashboard. All timestamps are unix seconds; EndTime may be zero when the
// source does not know it.
type Session struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Summary          string     `json:"summary"`
	StartTime        int64      `json:"starttime"`
	EndTime          int64      `json:"endtime"`
	Timezone         string     `json:"timezone"`
	Duration         int64      `json:"duration"`
	LaunchURL        string     `json:"launchurl"`
	RecordingURL     string     `json:"recordingurl"`
	ImageURL         string     `json:"imageurl"`
	Location         string     `json:"location"`
	Tags             []string   `json:"tags"`
	Instructor       Instructor `json:"instructor"`
	IsEnrolled       bool       `json:"isenrolled"`
	RegistrationTime int64      `json:"registrationtime"`
	Status           string     `json:"status"`
}
