package domain

import (
	"fmt"
	"strings"
	"time"

	"storefront-gateway/internal/core/apperror"
)

// DefaultIntervalSeconds is how long a slide stays up when no interval is given.
const DefaultIntervalSeconds = 5

// ErrNoSlides is returned when a carousel is saved without slides.
var ErrNoSlides = apperror.NewDomain("CAROUSEL_EMPTY", "The carousel needs at least one slide.")

// Slide is one picture of the home carousel.
type Slide struct {
	Image    string `json:"image"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Carousel is the storefront home banner.
type Carousel struct {
	Slides          []Slide   `json:"slides"`
	IntervalSeconds int       `json:"intervalSeconds"`
	Duration        int       `json:"duration,omitempty"` // Seconds. 0 keeps it until removed.
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewCarousel validates the slides and builds a Carousel stamped with now.
func NewCarousel(slides []Slide, interval, duration int, now time.Time) (*Carousel, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}

	fields := map[string]string{}
	cleaned := make([]Slide, 0, len(slides))
	for i, s := range slides {
		s.Image = strings.TrimSpace(s.Image)
		if s.Image == "" {
			fields[fmt.Sprintf("slides[%d].image", i)] = "This field is required."
		}
		cleaned = append(cleaned, s)
	}
	if interval < 0 {
		fields["intervalSeconds"] = "Must be at least 0."
	}
	if duration < 0 {
		fields["duration"] = "Must be at least 0."
	}
	if len(fields) > 0 {
		return nil, &apperror.ValidationError{Fields: fields}
	}

	if interval == 0 {
		interval = DefaultIntervalSeconds
	}
	return &Carousel{
		Slides:          cleaned,
		IntervalSeconds: interval,
		Duration:        duration,
		UpdatedAt:       now,
	}, nil
}

// TTL is how long the carousel is kept.
func (c *Carousel) TTL() time.Duration {
	return time.Duration(c.Duration) * time.Second
}
