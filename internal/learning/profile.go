// Package learning keeps per-domain extraction statistics and persists them as one JSON
// document.
package learning

import (
	"maps"
	"time"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Profile tracks extraction outcomes for one domain. SuccessRate is the running mean of all
// recorded samples.
type Profile struct {
	Domain      string    `json:"domain"`
	Attempts    int       `json:"attempts"`
	SuccessRate float64   `json:"successRate"`
	FirstSeen   time.Time `json:"firstSeen"`
	LastSeen    time.Time `json:"lastSeen"`
	LastSource  string    `json:"lastSource,omitempty"`
}

// Confidence is derived on every read and never stored.
func (p Profile) Confidence() Confidence {
	switch {
	case p.Attempts >= 10 && p.SuccessRate > 0.8:
		return ConfidenceHigh
	case p.Attempts >= 5 && p.SuccessRate > 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Document is the persisted layout: {"sites": {...}, "lastUpdated": "..."}.
type Document struct {
	Sites       map[string]Profile `json:"sites"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

func NewDocument() Document {
	return Document{Sites: map[string]Profile{}}
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := Document{Sites: make(map[string]Profile, len(d.Sites)), LastUpdated: d.LastUpdated}
	maps.Copy(out.Sites, d.Sites)
	return out
}

// Outcome is one scrape result to fold into a profile. Source is empty for failures.
type Outcome struct {
	Domain string
	Sample float64
	Source string
	At     time.Time
}

// Apply returns a new document with o folded in. d is not modified.
func (d Document) Apply(o Outcome) Document {
	next := d.Clone()
	at := o.At.UTC().Truncate(time.Millisecond)

	p, ok := next.Sites[o.Domain]
	if !ok {
		p = Profile{Domain: o.Domain, FirstSeen: at}
	}
	p.Attempts++
	p.SuccessRate = clamp(p.SuccessRate + (clamp(o.Sample)-p.SuccessRate)/float64(p.Attempts))
	p.LastSeen = at
	if o.Source != "" {
		p.LastSource = o.Source
	}

	next.Sites[o.Domain] = p
	next.LastUpdated = at
	return next
}

// Stats is the read view of a profile.
type Stats struct {
	Domain      string     `json:"domain"`
	IsNewSite   bool       `json:"isNewSite"`
	Attempts    int        `json:"attempts"`
	SuccessRate float64    `json:"successRate"`
	Confidence  Confidence `json:"confidence"`
	FirstSeen   time.Time  `json:"firstSeen,omitzero"`
	LastSeen    time.Time  `json:"lastSeen,omitzero"`
	LastSource  string     `json:"lastSource,omitempty"`
}

// Stats returns the view for domain. Unseen domains are new with low confidence.
func (d Document) Stats(domain string) Stats {
	p, ok := d.Sites[domain]
	if !ok {
		return Stats{Domain: domain, IsNewSite: true, Confidence: ConfidenceLow}
	}
	return Stats{
		Domain:      domain,
		Attempts:    p.Attempts,
		SuccessRate: p.SuccessRate,
		Confidence:  p.Confidence(),
		FirstSeen:   p.FirstSeen,
		LastSeen:    p.LastSeen,
		LastSource:  p.LastSource,
	}
}

func clamp(v float64) float64 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
