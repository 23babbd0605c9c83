// Package leads takes in quote requests from the site's call-to-action form.
//
// A submission goes through a fixed pipeline in [Service.Submit]:
//
//  1. Validate every field and report all failures at once
//  2. Check the per-client rate limit
//  3. Assign an ID and timestamp, archive it in a [Store]
//  4. Forward it to the form backend through a [Relay]
//
// Archiving happens before relaying, so a lead survives a backend outage.
// Archive backends: [MemoryStore] for tests and local runs, [FileStore]
// for single-host deployments, [MongoStore] for production. Rate limiting
// is in-process ([LocalLimiter]) or shared across instances ([RedisLimiter]).
package leads

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cruderly/wallie/pkg/errors"
)

// Form field names, as posted by the site and used in field errors.
const (
	FieldSpaceType   = "spaceType"
	FieldSurfaceType = "surfaceType"
	FieldSize        = "size"
	FieldLocation    = "location"
	FieldTimeline    = "timeline"
	FieldWallPhoto   = "wallPhoto"
	FieldContact     = "contact"
	FieldLocale      = "locale"
)

// Form is a raw submission of the quote form.
type Form struct {
	SpaceType   string `json:"spaceType" bson:"spaceType"`
	SurfaceType string `json:"surfaceType" bson:"surfaceType"`
	Size        string `json:"size" bson:"size"`
	Location    string `json:"location" bson:"location"`
	Timeline    string `json:"timeline" bson:"timeline"`
	WallPhoto   string `json:"wallPhoto,omitempty" bson:"wallPhoto,omitempty"` // link to a photo of the wall
	Contact     string `json:"contact" bson:"contact"`                         // e-mail address
	Locale      string `json:"locale,omitempty" bson:"locale"`                 // page locale the form was sent from
}

// FormFromValues reads a form-encoded submission.
func FormFromValues(v url.Values) Form {
	return Form{
		SpaceType:   v.Get(FieldSpaceType),
		SurfaceType: v.Get(FieldSurfaceType),
		Size:        v.Get(FieldSize),
		Location:    v.Get(FieldLocation),
		Timeline:    v.Get(FieldTimeline),
		WallPhoto:   v.Get(FieldWallPhoto),
		Contact:     v.Get(FieldContact),
		Locale:      v.Get(FieldLocale),
	}
}

// Normalize returns f with surrounding whitespace removed from every field.
func (f Form) Normalize() Form {
	f.SpaceType = strings.TrimSpace(f.SpaceType)
	f.SurfaceType = strings.TrimSpace(f.SurfaceType)
	f.Size = strings.TrimSpace(f.Size)
	f.Location = strings.TrimSpace(f.Location)
	f.Timeline = strings.TrimSpace(f.Timeline)
	f.WallPhoto = strings.TrimSpace(f.WallPhoto)
	f.Contact = strings.TrimSpace(f.Contact)
	f.Locale = strings.ToLower(strings.TrimSpace(f.Locale))
	return f
}

// Validate checks every field and returns a *errors.FieldErrors listing all
// of the rejected ones, or nil. Locale is not validated here; the service
// substitutes the default for anything unsupported.
func (f Form) Validate() error {
	var fe errors.FieldErrors
	text := []struct{ name, value string }{
		{FieldSpaceType, f.SpaceType},
		{FieldSurfaceType, f.SurfaceType},
		{FieldSize, f.Size},
		{FieldLocation, f.Location},
		{FieldTimeline, f.Timeline},
	}
	for _, field := range text {
		if reason := errors.ValidateText(field.value); reason != "" {
			fe.Add(field.name, reason)
		}
	}
	if reason := errors.ValidateURL(f.WallPhoto); reason != "" {
		fe.Add(FieldWallPhoto, reason)
	}
	if reason := errors.ValidateEmail(f.Contact); reason != "" {
		fe.Add(FieldContact, reason)
	}
	return fe.Err()
}

// Lead is an accepted submission.
type Lead struct {
	ID         string    `json:"id" bson:"_id"`
	Form       `bson:",inline"`
	ReceivedAt time.Time `json:"receivedAt" bson:"receivedAt"`

	// Relay outcome, filled in after forwarding.
	RelayedAt  *time.Time `json:"relayedAt,omitempty" bson:"relayedAt,omitempty"`
	RelayError string     `json:"relayError,omitempty" bson:"relayError,omitempty"`
}

// NewLead wraps a validated form with a fresh ID.
func NewLead(f Form, now time.Time) *Lead {
	return &Lead{
		ID:         uuid.NewString(),
		Form:       f,
		ReceivedAt: now.UTC(),
	}
}

// Relayed reports whether the lead reached the form backend.
func (l *Lead) Relayed() bool {
	return l.RelayedAt != nil
}
