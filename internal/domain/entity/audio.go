package entity

import "strings"

// AudioPayload is a captured audio blob.
type AudioPayload struct {
	Data     []byte
	MIMEType string
	FileName string
}

// DefaultAudioMIMEType is what the web recorder produces.
const DefaultAudioMIMEType = "audio/webm;codecs=opus"

// Extension returns a file extension matching the MIME type.
func (a AudioPayload) Extension() string {
	base := strings.TrimSpace(strings.SplitN(a.MIMEType, ";", 2)[0])
	switch base {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return "m4a"
	case "audio/ogg":
		return "ogg"
	default:
		return "webm"
	}
}

// IsAudio reports whether the MIME type names an audio format.
func (a AudioPayload) IsAudio() bool {
	return strings.HasPrefix(strings.TrimSpace(strings.ToLower(a.MIMEType)), "audio/")
}
