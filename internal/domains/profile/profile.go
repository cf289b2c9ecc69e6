package profile

// Static portfolio content. Loaded once from config and never mutated, so it
// is safe to share between handlers and the chat prompt builder.

type SocialLinks struct {
	GitHub   string `mapstructure:"github" json:"github,omitempty"`
	LinkedIn string `mapstructure:"linkedin" json:"linkedin,omitempty"`
	Email    string `mapstructure:"email" json:"email,omitempty"`
}

type PersonalInfo struct {
	Name        string      `mapstructure:"name" json:"name"`
	Title       string      `mapstructure:"title" json:"title"`
	Email       string      `mapstructure:"email" json:"email"`
	Phone       string      `mapstructure:"phone" json:"phone,omitempty"`
	Location    string      `mapstructure:"location" json:"location"`
	Bio         string      `mapstructure:"bio" json:"bio"`
	BioExtended []string    `mapstructure:"bio_extended" json:"bioExtended,omitempty"`
	SocialLinks SocialLinks `mapstructure:"social_links" json:"socialLinks"`
}

type Experience struct {
	ID          string   `mapstructure:"id" json:"id"`
	Company     string   `mapstructure:"company" json:"company"`
	Position    string   `mapstructure:"position" json:"position"`
	Duration    string   `mapstructure:"duration" json:"duration"`
	Location    string   `mapstructure:"location" json:"location"`
	Description []string `mapstructure:"description" json:"description"`
}

type Education struct {
	ID          string `mapstructure:"id" json:"id"`
	Institution string `mapstructure:"institution" json:"institution"`
	Degree      string `mapstructure:"degree" json:"degree"`
	Field       string `mapstructure:"field" json:"field"`
	Duration    string `mapstructure:"duration" json:"duration"`
	Location    string `mapstructure:"location" json:"location"`
}

type Skill struct {
	Name     string `mapstructure:"name" json:"name"`
	Level    int    `mapstructure:"level" json:"level"`
	Category string `mapstructure:"category" json:"category"`
}

type Project struct {
	ID           string   `mapstructure:"id" json:"id"`
	Title        string   `mapstructure:"title" json:"title"`
	Description  string   `mapstructure:"description" json:"description"`
	Technologies []string `mapstructure:"technologies" json:"technologies"`
	Image        string   `mapstructure:"image" json:"image,omitempty"`
	Link         string   `mapstructure:"link" json:"link,omitempty"`
	GitHub       string   `mapstructure:"github" json:"github,omitempty"`
}

type Tool struct {
	ID           string   `mapstructure:"id" json:"id"`
	Name         string   `mapstructure:"name" json:"name"`
	Description  string   `mapstructure:"description" json:"description"`
	Category     string   `mapstructure:"category" json:"category"`
	Icon         string   `mapstructure:"icon" json:"icon,omitempty"`
	Link         string   `mapstructure:"link" json:"link"`
	Technologies []string `mapstructure:"technologies" json:"technologies,omitempty"`
}

// Profile is everything the public site renders about its owner.
// @Description Portfolio owner profile
type Profile struct {
	PersonalInfo PersonalInfo `mapstructure:"personal_info" json:"personalInfo"`
	Experiences  []Experience `mapstructure:"experiences" json:"experiences"`
	Education    []Education  `mapstructure:"education" json:"education"`
	Skills       []Skill      `mapstructure:"skills" json:"skills"`
	Projects     []Project    `mapstructure:"projects" json:"projects"`
	Tools        []Tool       `mapstructure:"tools" json:"tools"`
}

// SkillsByCategory groups skills preserving their declared order.
func (p Profile) SkillsByCategory() map[string][]Skill {
	out := make(map[string][]Skill)
	for _, s := range p.Skills {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
