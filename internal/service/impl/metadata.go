package impl

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/hive"
)

const (
	appName         = "crowdhive"
	appVersion      = "1.0.0"
	projectTag      = "crowdhive-project"
	defaultTag      = "crowdhive"
	defaultImage    = "https://placehold.co/600x400/3a206e/e8b4b6?text=Project+Image"
	defaultCategory = "Uncategorized"
)

var (
	defaultFundingGoal = decimal.NewFromInt(100)
	hundred            = decimal.NewFromInt(100)
)

type socialLinksDTO struct {
	Website string `json:"website"`
	Twitter string `json:"twitter"`
	Discord string `json:"discord"`
	Github  string `json:"github"`
}

type projectDTO struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	FundingGoal decimal.Decimal `json:"fundingGoal"`
	CoverImage  *string         `json:"coverImage"`
	SocialLinks socialLinksDTO  `json:"socialLinks"`
	Version     string          `json:"version"`
}

type metadataDTO struct {
	App     string     `json:"app"`
	Tags    []string   `json:"tags"`
	Project projectDTO `json:"project"`
	Format  string     `json:"format"`
}

// postMetadata is a leniently parsed json_metadata. Posts are authored by third parties,
// so every field is decoded on its own and a broken field only loses itself.
type postMetadata struct {
	App     string
	Tags    []string
	Project entities.ProjectMetadata
}

func (m postMetadata) isProject() bool {
	if !strings.Contains(m.App, appName) {
		return false
	}

	for _, v := range m.Tags {
		if v == projectTag {
			return true
		}
	}

	return false
}

func parseMetadata(raw []byte) (postMetadata, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return postMetadata{}, false
	}

	var out postMetadata
	_ = json.Unmarshal(fields["app"], &out.App)
	out.Tags = parseTags(fields["tags"])
	out.Project = parseProject(fields["project"])

	return out, true
}

func parseTags(raw json.RawMessage) []string {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags
	}

	var tag string
	if err := json.Unmarshal(raw, &tag); err == nil && tag != "" {
		return []string{tag}
	}

	return nil
}

func parseProject(raw json.RawMessage) entities.ProjectMetadata {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entities.ProjectMetadata{}
	}

	var (
		out   entities.ProjectMetadata
		links socialLinksDTO
	)

	_ = json.Unmarshal(fields["category"], &out.Category)
	_ = json.Unmarshal(fields["coverImage"], &out.CoverImage)
	_ = json.Unmarshal(fields["version"], &out.Version)
	if err := json.Unmarshal(fields["socialLinks"], &links); err == nil {
		out.SocialLinks = entities.SocialLinks(links)
	}

	// accepts both 100 and "100"
	var goal decimal.Decimal
	if err := json.Unmarshal(fields["fundingGoal"], &goal); err == nil {
		out.FundingGoal = goal
	}

	return out
}

func buildMetadata(category string, fundingGoal decimal.Decimal, coverImage string, links entities.SocialLinks) ([]byte, error) {
	var image *string
	if coverImage != "" {
		image = &coverImage
	}

	return json.Marshal(metadataDTO{
		App:  appName + "/" + appVersion,
		Tags: []string{defaultTag, projectTag, strings.ToLower(category)},
		Project: projectDTO{
			Type:        "project",
			Category:    category,
			FundingGoal: fundingGoal,
			CoverImage:  image,
			SocialLinks: socialLinksDTO(links),
			Version:     appVersion,
		},
		Format: "markdown",
	})
}

func toProject(p hive.Post) *entities.Project {
	m, _ := parseMetadata(p.JSONMetadata)

	goal := m.Project.FundingGoal
	if !goal.IsPositive() {
		goal = defaultFundingGoal
	}

	image := m.Project.CoverImage
	if image == "" {
		image = defaultImage
	}

	category := m.Project.Category
	if category == "" {
		category = defaultCategory
	}

	raised := parseAmount(p.PendingPayoutValue)

	return &entities.Project{
		Author:        p.Author,
		Permlink:      p.Permlink,
		Title:         p.Title,
		Description:   p.Body,
		Image:         image,
		Category:      category,
		FundingTarget: goal,
		Raised:        raised,
		Progress:      progress(raised, goal),
		CreatedAt:     hive.ParseTime(p.Created),
		LastUpdate:    hive.ParseTime(p.LastUpdate),
		NetVotes:      p.NetVotes,
		Children:      p.Children,
		Contributors:  []entities.Contributor{},
	}
}

// progress returns min(round(raised/target*100), 100) clamped to [0, 100].
func progress(raised, target decimal.Decimal) uint8 {
	if !target.IsPositive() {
		return 0
	}

	p := raised.Div(target).Mul(hundred).Round(0)

	switch {
	case p.GreaterThan(hundred):
		return 100
	case p.IsNegative():
		return 0
	default:
		return uint8(p.IntPart())
	}
}

// parseAmount parses numeric part of "1.234 HIVE". Malformed amount is zero.
func parseAmount(s string) decimal.Decimal {
	f := strings.Fields(s)
	if len(f) == 0 {
		return decimal.Zero
	}

	v, err := decimal.NewFromString(f[0])
	if err != nil {
		return decimal.Zero
	}

	return v
}
