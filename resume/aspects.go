package resume

import (
	"fmt"
	"strings"
)

// Aspects decomposes the resume into labeled fact strings, one per
// embeddable unit: the Value tree flattened depth-first. Optional fields
// (LinkedIn, GitHub) are omitted when empty; repeated sections contribute
// one aspect per entry plus one per bullet, technology, or similar leaf.
func (r *Resume) Aspects() []string {
	return r.Value().Flatten()
}

// Value models the resume as an explicit record tree in the field order
// aspects are extracted in.
func (r *Resume) Value() Value {
	experience := make([]Value, 0, len(r.Experience))
	for _, exp := range r.Experience {
		bullets := make([]Value, 0, len(exp.Bullets))
		for _, bullet := range exp.Bullets {
			bullets = append(bullets, Scalarf("Experience Detail: %s", bullet))
		}
		experience = append(experience, Object(
			Scalarf("Experience: %s (%d-%s)", exp.Name, exp.Date.Start, exp.Date.EndLabel()),
			List(bullets...),
		))
	}

	projects := make([]Value, 0, len(r.Projects))
	for _, project := range r.Projects {
		techs := make([]Value, 0, len(project.Technologies))
		for _, tech := range project.Technologies {
			techs = append(techs, Scalarf("Project Technology: %s", tech))
		}
		projects = append(projects, Object(
			Scalarf("Project: %s (%d)", project.Name, project.Year),
			Scalarf("Project Description: %s", project.Description),
			List(techs...),
		))
	}

	education := make([]Value, 0, len(r.Education))
	for _, edu := range r.Education {
		education = append(education, Scalarf("Education: %s - %s (%d-%s)", edu.Name, edu.Degree, edu.Date.Start, edu.Date.EndLabel()))
	}

	skills := make([]Value, 0, len(r.Skills))
	for _, skill := range r.Skills {
		skills = append(skills, Scalarf("Skill: %s", skill))
	}
	achievements := make([]Value, 0, len(r.Achievements))
	for _, achievement := range r.Achievements {
		achievements = append(achievements, Scalarf("Achievement: %s", achievement))
	}
	certifications := make([]Value, 0, len(r.Certifications))
	for _, cert := range r.Certifications {
		certifications = append(certifications, Scalarf("Certification: %s (%s)", cert.Name, cert.Date))
	}

	return Object(
		Scalarf("Name: %s", r.Name),
		Enum("Title", string(r.Title)),
		Enum("Work Type", string(r.WorkType)),
		Scalarf("Preferred Culture: %s", r.PreferCulture),
		Object(
			Scalarf("Location: %s, %s", r.Contact.Address.Region, r.Contact.Address.Detail),
			Scalarf("Email: %s", r.Contact.Email),
			Scalarf("Phone: %s", r.Contact.Phone),
			Optional("LinkedIn", r.Contact.LinkedIn),
			Optional("GitHub", r.Contact.GitHub),
		),
		Scalarf("Summary: %s", r.Summary),
		List(experience...),
		List(projects...),
		List(education...),
		List(skills...),
		List(achievements...),
		List(certifications...),
	)
}

// FullText is the retrieval document for the resume: every aspect joined
// with " | ".
func (r *Resume) FullText() string {
	return strings.Join(r.Aspects(), " | ")
}

// Identity is a display name and title recovered from stored aspect strings.
type Identity struct {
	Name  string
	Title string
}

// InferIdentity recovers a candidate's name and title from labeled aspects.
// The last "Name:" aspect wins; any of "Title:", "Position:", or "Role:"
// supplies the title. Missing facts fall back to a positional placeholder
// ("Candidate_<n>", 1-based) and "Unknown Position".
func InferIdentity(aspects []string, position int) Identity {
	id := Identity{
		Name:  fmt.Sprintf("Candidate_%d", position),
		Title: "Unknown Position",
	}

	for _, aspect := range aspects {
		lower := strings.ToLower(aspect)
		switch {
		case strings.Contains(lower, "name:"):
			if v := splitLabel(aspect); v != "" {
				id.Name = v
			}
		case strings.Contains(lower, "title:"),
			strings.Contains(lower, "position:"),
			strings.Contains(lower, "role:"):
			if v := splitLabel(aspect); v != "" {
				id.Title = v
			}
		}
	}
	return id
}

func splitLabel(aspect string) string {
	_, value, found := strings.Cut(aspect, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
