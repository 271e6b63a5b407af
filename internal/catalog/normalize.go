package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"liveclass-service/internal/model"
)

// PlaceholderImage is served for sessions whose source provides no banner.
const PlaceholderImage = "/assets/banner-placeholder.svg"

// Field aliases accepted from heterogeneous sources, tried in priority order.
// The first present and parsable value wins.
var (
	startTimeAliases    = []string{"starttime", "start_time", "startTime"}
	endTimeAliases      = []string{"endtime", "end_time", "endTime"}
	nameAliases         = []string{"name", "title"}
	summaryAliases      = []string{"summary", "description"}
	launchURLAliases    = []string{"launchurl", "launch_url", "joinurl"}
	recordingURLAliases = []string{"recordingurl", "recording"}
	imageURLAliases     = []string{"imageurl", "banner", "bannerurl"}
	locationAliases     = []string{"location", "room"}
	enrolledAliases     = []string{"isenrolled", "enrolled", "is_enrolled"}
)

// timeLayouts are tried in order when a timestamp arrives as a string.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Normalize maps a raw provider record onto the dashboard session shape.
// It never fails: malformed or missing fields degrade to safe defaults
// field by field, and normalizing an already-normalized record is a no-op.
func Normalize(raw map[string]any) model.Session {
	starttime := coerceTime(raw, startTimeAliases)
	endtime := coerceTime(raw, endTimeAliases)

	var duration int64
	if v, ok := raw["duration"]; ok {
		duration = coerceInt(v)
	} else if starttime != 0 && endtime != 0 {
		duration = endtime - starttime
		if duration < 0 {
			duration = 0
		}
	}

	imageurl := firstString(raw, imageURLAliases)
	if imageurl == "" {
		imageurl = PlaceholderImage
	}

	registrationtime := coerceInt(raw["registrationtime"])

	isenrolled := registrationtime > 0
	if !isenrolled {
		for _, key := range enrolledAliases {
			if truthy(raw[key]) {
				isenrolled = true
				break
			}
		}
	}

	return model.Session{
		ID:               stringify(raw["id"]),
		Name:             firstString(raw, nameAliases),
		Summary:          firstString(raw, summaryAliases),
		StartTime:        starttime,
		EndTime:          endtime,
		Timezone:         stringify(raw["timezone"]),
		Duration:         duration,
		LaunchURL:        firstString(raw, launchURLAliases),
		RecordingURL:     firstString(raw, recordingURLAliases),
		ImageURL:         imageurl,
		Location:         firstString(raw, locationAliases),
		Tags:             coerceTags(raw),
		Instructor:       coerceInstructor(raw["instructor"]),
		IsEnrolled:       isenrolled,
		RegistrationTime: registrationtime,
		Status:           stringify(raw["status"]),
	}
}

// coerceTime resolves the first alias that carries a usable timestamp.
// Numeric values pass through; strings are parsed against the known layouts.
func coerceTime(raw map[string]any, keys []string) int64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return n
			}
			for _, layout := range timeLayouts {
				if parsed, err := time.Parse(layout, t); err == nil {
					return parsed.Unix()
				}
			}
		default:
			if n := coerceInt(v); n != 0 {
				return n
			}
		}
	}
	return 0
}

func coerceInstructor(v any) model.Instructor {
	switch t := v.(type) {
	case string:
		return model.Instructor{Name: t}
	case map[string]any:
		name := stringify(t["name"])
		if name == "" {
			name = stringify(t["fullname"])
		}
		avatar := stringify(t["avatar"])
		if avatar == "" {
			avatar = stringify(t["image"])
		}
		return model.Instructor{Name: name, Avatar: avatar}
	case model.Instructor:
		return t
	default:
		return model.Instructor{}
	}
}

func coerceTags(raw map[string]any) []string {
	switch t := raw["tags"].(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			tags = append(tags, stringify(item))
		}
		return tags
	}

	if track := stringify(raw["track"]); track != "" {
		return []string{track}
	}
	return []string{}
}

func firstString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		if s := stringify(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func coerceInt(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s != "" && s != "0" && s != "false"
	default:
		return false
	}
}
