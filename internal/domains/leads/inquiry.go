package leads

import (
	"fmt"
	"strings"
)

type ServiceType string

const (
	ServiceWebsite ServiceType = "website"
	ServiceTool    ServiceType = "tool"
	ServiceETL     ServiceType = "etl"
)

var serviceTitles = map[ServiceType]string{
	ServiceWebsite: "Website Building",
	ServiceTool:    "Tool Building",
	ServiceETL:     "ETL Integration",
}

// Title is the human name used in subjects, "Unknown" for anything else.
func (s ServiceType) Title() string {
	if t, ok := serviceTitles[s]; ok {
		return t
	}
	return "Unknown"
}

func (s ServiceType) Valid() bool {
	_, ok := serviceTitles[s]
	return ok
}

// InquiryRequest is the multi-step form from the services page. Only the
// fields for ServiceType are read.
// @Description Service inquiry form
type InquiryRequest struct {
	ServiceType ServiceType `json:"serviceType" example:"website" enums:"website,tool,etl"`
	Name        string      `json:"name" example:"Jane Doe"`
	Email       string      `json:"email" example:"jane@acme.io"`
	Phone       string      `json:"phone,omitempty"`

	// website
	BusinessType       string   `json:"businessType,omitempty"`
	ProjectDescription string   `json:"projectDescription,omitempty"`
	BudgetRange        string   `json:"budgetRange,omitempty"`
	Timeline           string   `json:"timeline,omitempty"`
	Features           []string `json:"features,omitempty"`
	ReferenceWebsites  string   `json:"referenceWebsites,omitempty"`

	// tool
	ProblemToSolve       string   `json:"problemToSolve,omitempty"`
	TargetPlatforms      []string `json:"targetPlatforms,omitempty"`
	IntegrationsNeeded   string   `json:"integrationsNeeded,omitempty"`
	ExpectedUsers        string   `json:"expectedUsers,omitempty"`
	CurrentWorkflow      string   `json:"currentWorkflow,omitempty"`
	DataSources          string   `json:"dataSources,omitempty"`
	SecurityRequirements []string `json:"securityRequirements,omitempty"`

	// etl
	SourceSystems          string   `json:"sourceSystems,omitempty"`
	DestinationSystems     string   `json:"destinationSystems,omitempty"`
	DataVolume             string   `json:"dataVolume,omitempty"`
	SyncFrequency          string   `json:"syncFrequency,omitempty"`
	TransformationsNeeded  string   `json:"transformationsNeeded,omitempty"`
	CurrentSetup           string   `json:"currentSetup,omitempty"`
	ComplianceRequirements []string `json:"complianceRequirements,omitempty"`
	ErrorHandling          string   `json:"errorHandling,omitempty"`
	SupportLevel           string   `json:"supportLevel,omitempty"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate reports the first missing required field.
func (r InquiryRequest) Validate() error {
	if !r.ServiceType.Valid() {
		return fmt.Errorf("%w: serviceType must be one of website, tool, etl", ErrInvalidInquiry)
	}
	if blank(r.Name) || blank(r.Email) {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInquiry)
	}
	if !ValidEmail(NormalizeEmail(r.Email)) {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInquiry)
	}
	switch r.ServiceType {
	case ServiceWebsite:
		if blank(r.BusinessType) || blank(r.ProjectDescription) {
			return fmt.Errorf("%w: businessType and projectDescription are required", ErrInvalidInquiry)
		}
	case ServiceTool:
		if blank(r.ProblemToSolve) || len(r.TargetPlatforms) == 0 {
			return fmt.Errorf("%w: problemToSolve and targetPlatforms are required", ErrInvalidInquiry)
		}
	case ServiceETL:
		if blank(r.SourceSystems) || blank(r.DestinationSystems) {
			return fmt.Errorf("%w: sourceSystems and destinationSystems are required", ErrInvalidInquiry)
		}
	}
	return nil
}

func (r InquiryRequest) Subject() string {
	return "Service Inquiry: " + r.ServiceType.Title()
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func joinOr(items []string, fallback string) string {
	return or(strings.Join(items, ", "), fallback)
}

// FormatMessage renders the plain-text body sent to the site owner.
func (r InquiryRequest) FormatMessage() string {
	var b strings.Builder
	line := func(label, value string) { fmt.Fprintf(&b, "%s: %s\n", label, value) }

	fmt.Fprintf(&b, "Service Inquiry: %s\n\n", r.ServiceType.Title())
	b.WriteString("--- Contact Information ---\n")
	line("Name", r.Name)
	line("Email", r.Email)
	line("Phone", or(r.Phone, "Not provided"))
	b.WriteString("\n")

	switch r.ServiceType {
	case ServiceWebsite:
		b.WriteString("--- Website Building Details ---\n")
		line("Business Type", r.BusinessType)
		line("Project Description", r.ProjectDescription)
		line("Budget Range", r.BudgetRange)
		line("Timeline", r.Timeline)
		line("Features Needed", joinOr(r.Features, "None selected"))
		line("Reference Websites", or(r.ReferenceWebsites, "None provided"))
	case ServiceTool:
		b.WriteString("--- Tool Building Details ---\n")
		line("Problem to Solve", r.ProblemToSolve)
		line("Target Platforms", joinOr(r.TargetPlatforms, "None selected"))
		line("Integrations Needed", or(r.IntegrationsNeeded, "None specified"))
		line("Expected Users", r.ExpectedUsers)
		line("Budget Range", r.BudgetRange)
		line("Timeline", r.Timeline)
		line("Current Workflow", or(r.CurrentWorkflow, "Not described"))
		line("Data Sources", or(r.DataSources, "None specified"))
		line("Security Requirements", joinOr(r.SecurityRequirements, "None selected"))
	case ServiceETL:
		b.WriteString("--- ETL Integration Details ---\n")
		line("Source Systems", r.SourceSystems)
		line("Destination Systems", r.DestinationSystems)
		line("Data Volume", r.DataVolume)
		line("Sync Frequency", r.SyncFrequency)
		line("Transformations Needed", or(r.TransformationsNeeded, "None specified"))
		line("Current Setup", or(r.CurrentSetup, "Not described"))
		line("Compliance Requirements", joinOr(r.ComplianceRequirements, "None selected"))
		line("Error Handling Preference", r.ErrorHandling)
		line("Support Level Needed", r.SupportLevel)
	}
	return b.String()
}
