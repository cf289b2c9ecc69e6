package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/portfolio/internal/domains/profile"
)

func sampleProfile() profile.Profile {
	return profile.Profile{
		PersonalInfo: profile.PersonalInfo{
			Name:        "Jane Doe",
			Title:       "Engineer",
			Email:       "jane@example.com",
			Location:    "Chennai, India",
			Bio:         "Builds things.",
			BioExtended: []string{"Likes data.", "Ships often."},
		},
		Experiences: []profile.Experience{
			{Company: "Acme", Position: "Lead", Duration: "2020 - Present", Description: []string{"Led a team.", "Shipped X."}},
			{Company: "Initech", Position: "Dev", Duration: "2018 - 2020", Description: []string{"Wrote code."}},
		},
		Skills: []profile.Skill{
			{Name: "Go", Category: "Languages"},
			{Name: "SQL", Category: "Data"},
		},
		Projects: []profile.Project{
			{Title: "Pipes", Description: "ETL tool", Technologies: []string{"Go", "Kafka"}},
		},
		Education: []profile.Education{
			{Degree: "B.E.", Field: "CS", Institution: "Anna University", Duration: "2014 - 2018"},
			{Degree: "M.S.", Field: "Data", Institution: "State U", Duration: "2018 - 2019"},
		},
	}
}

func TestBuildPortfolioPrompt(t *testing.T) {
	got, err := BuildPortfolioPrompt(sampleProfile())
	require.NoError(t, err)

	assert.True(t, len(got) > 0 && got[0] == 'Y', "prompt starts with the role line")
	assert.Contains(t, got, "## About Jane Doe\nTitle: Engineer\nLocation: Chennai, India\nBio: Builds things.\nLikes data. Ships often.\n")
	assert.Contains(t, got, "## Professional Experience\nLead at Acme (2020 - Present): Led a team. Shipped X.\n\nDev at Initech (2018 - 2020): Wrote code.\n")
	assert.Contains(t, got, "## Skills\nGo (Languages), SQL (Data)\n")
	assert.Contains(t, got, "## Projects\nPipes: ETL tool [Technologies: Go, Kafka]\n")
	assert.Contains(t, got, "## Education\nB.E. in CS from Anna University (2014 - 2018)\nM.S. in Data from State U (2018 - 2019)\n")
	assert.Contains(t, got, "emailing jane@example.com")
	assert.Contains(t, got, `instead of "Jane Doe has experience with..."`)
}

func TestPromptVersions(t *testing.T) {
	_, ok := PORTFOLIO_PROMPT.GetVersion(PORTFOLIO_PROMPT.CurrentVersion)
	assert.True(t, ok)
	_, ok = PORTFOLIO_PROMPT.GetVersion(9.9)
	assert.False(t, ok)
}

func TestRenderReportsTemplateErrors(t *testing.T) {
	_, err := PromptDefinition{Content: "{{.Missing", Version: 1}.Render(nil)
	assert.Error(t, err)
}
