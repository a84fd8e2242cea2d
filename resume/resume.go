package resume

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common validation errors.
var (
	ErrEmptyName   = errors.New("name is required")
	ErrEmptyEmail  = errors.New("contact email is required")
	ErrBadTitle    = errors.New("unknown title")
	ErrBadWorkType = errors.New("unknown work type")
)

// Title is the candidate's professional role.
type Title string

const (
	TitleAIEngineer    Title = "AI Engineer"
	TitleAIResearcher  Title = "AI Researcher"
	TitleDataScientist Title = "Data Scientist"
	TitleDataEngineer  Title = "Data Engineer"
)

// Titles lists every accepted title value.
func Titles() []Title {
	return []Title{TitleAIEngineer, TitleAIResearcher, TitleDataScientist, TitleDataEngineer}
}

// WorkType is the candidate's preferred working arrangement.
type WorkType string

const (
	WorkRemote WorkType = "Remote"
	WorkOnSite WorkType = "On-site"
	WorkHybrid WorkType = "Hybrid"
)

// Resume is a candidate CV.
type Resume struct {
	Name           string          `json:"name"`
	Title          Title           `json:"title"`
	WorkType       WorkType        `json:"work_type"`
	PreferCulture  string          `json:"prefer_culture"`
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Achievements   []string        `json:"achievements"`
	Certifications []Certification `json:"certifications"`
}

// Contact holds the candidate's contact details. LinkedIn and GitHub are
// optional.
type Contact struct {
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	LinkedIn string  `json:"linkedin,omitempty"`
	GitHub   string  `json:"github,omitempty"`
}

// Address locates the candidate.
type Address struct {
	Region string `json:"region"`
	Detail string `json:"detail"`
}

// DateRange spans a period; a nil End means the period is ongoing.
type DateRange struct {
	Start int  `json:"start"`
	End   *int `json:"end,omitempty"`
}

// EndLabel renders the end year, with "Present" standing in for an open
// range.
func (d DateRange) EndLabel() string {
	if d.End == nil {
		return "Present"
	}
	return fmt.Sprintf("%d", *d.End)
}

// Experience is one employment entry.
type Experience struct {
	Name    string    `json:"name"`
	Date    DateRange `json:"date"`
	Bullets []string  `json:"bullets"`
}

// Project is one personal or professional project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Year         int      `json:"year"`
}

// Education is one degree entry.
type Education struct {
	Name   string    `json:"name"`
	Date   DateRange `json:"date"`
	Degree string    `json:"degree"`
}

// Certification is one professional certification.
type Certification struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// Validate checks the fields a resume cannot be imported without.
func (r *Resume) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if r.Contact.Email == "" {
		return ErrEmptyEmail
	}
	switch r.Title {
	case TitleAIEngineer, TitleAIResearcher, TitleDataScientist, TitleDataEngineer:
	default:
		return fmt.Errorf("%w: %q", ErrBadTitle, r.Title)
	}
	switch r.WorkType {
	case WorkRemote, WorkOnSite, WorkHybrid:
	default:
		return fmt.Errorf("%w: %q", ErrBadWorkType, r.WorkType)
	}
	return nil
}

// Unmarshal decodes a single resume from JSON.
func Unmarshal(data []byte) (*Resume, error) {
	var r Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
