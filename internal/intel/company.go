package intel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/lumenfield/clientintel/internal/intel/provider"
	"github.com/lumenfield/clientintel/internal/webtext"
)

// companyModelOutput is the structured-output contract for the profiling
// call. Identity fields are merged in afterwards.
type companyModelOutput struct {
	Industry       string   `json:"industry"`
	Size           string   `json:"size" jsonschema:"enum=startup,enum=smb,enum=enterprise,enum=fortune500"`
	Description    string   `json:"description"`
	PainPoints     []string `json:"painPoints"`
	BudgetEstimate string   `json:"budgetEstimate" jsonschema:"enum=low,enum=medium,enum=high"`
	DecisionMakers []string `json:"decisionMakers"`
	Competitors    []string `json:"competitors"`
}

var companySchema = provider.GenerateSchema[companyModelOutput]()

const siteTextMaxChars = 3000

// DefaultCompanyIntelligence is the best-effort record returned when the
// profiling call fails.
func DefaultCompanyIntelligence(name, website string) CompanyIntelligence {
	return CompanyIntelligence{
		Name:           name,
		Website:        website,
		Industry:       "unknown",
		Size:           SizeSMB,
		RecentNews:     []string{},
		Competitors:    []string{},
		PainPoints:     []string{},
		BudgetEstimate: "medium",
		DecisionMakers: []string{},
	}
}

// CompanyProfiler builds CompanyIntelligence records. It never returns an
// error: a failed website fetch degrades to an empty excerpt and a failed
// model call degrades to the default record. Results are cached briefly so
// repeated turns in a session do not refetch and rescore the same company.
type CompanyProfiler struct {
	completer provider.Completer
	fetcher   *webtext.Fetcher
	model     string
	cache     *expirable.LRU[string, CompanyIntelligence]
	log       *zap.SugaredLogger
}

func NewCompanyProfiler(completer provider.Completer, fetcher *webtext.Fetcher, model string, cacheTTL time.Duration, log *zap.SugaredLogger) *CompanyProfiler {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &CompanyProfiler{
		completer: completer,
		fetcher:   fetcher,
		model:     model,
		cache:     expirable.NewLRU[string, CompanyIntelligence](256, nil, cacheTTL),
		log:       log,
	}
}

// Profile returns intelligence for a company, from cache when available.
func (p *CompanyProfiler) Profile(ctx context.Context, name, website string) CompanyIntelligence {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultCompanyIntelligence(name, website)
	}

	key := strings.ToLower(name)
	if ci, ok := p.cache.Get(key); ok {
		return ci
	}

	ci := p.profileUncached(ctx, name, website)
	p.cache.Add(key, ci)
	return ci
}

func (p *CompanyProfiler) profileUncached(ctx context.Context, name, website string) CompanyIntelligence {
	siteText := ""
	if website != "" && p.fetcher != nil {
		text, err := p.fetcher.FetchText(ctx, website, siteTextMaxChars)
		if err != nil {
			p.warn("website fetch failed", err)
		} else {
			siteText = text
		}
	}

	if p.completer == nil {
		return DefaultCompanyIntelligence(name, website)
	}

	out, err := p.completer.Complete(ctx, provider.Request{
		Model:           p.model,
		Instructions:    companyInstructions,
		Input:           buildCompanyInput(name, website, siteText),
		Temperature:     0.3,
		MaxOutputTokens: 700,
		SchemaName:      "CompanyIntelligence",
		Schema:          companySchema,
	})
	if err != nil {
		p.warn("company profiling call failed", err)
		return DefaultCompanyIntelligence(name, website)
	}

	var mo companyModelOutput
	if err := decodeModelJSON(out, &mo); err != nil {
		p.warn("company profiling output unparsable", err)
		return DefaultCompanyIntelligence(name, website)
	}

	ci := DefaultCompanyIntelligence(name, website)
	if mo.Industry != "" {
		ci.Industry = strings.ToLower(mo.Industry)
	}
	switch mo.Size {
	case SizeStartup, SizeSMB, SizeEnterprise, SizeFortune500:
		ci.Size = mo.Size
	}
	ci.Description = strings.TrimSpace(mo.Description)
	if mo.BudgetEstimate != "" {
		ci.BudgetEstimate = mo.BudgetEstimate
	}
	if mo.PainPoints != nil {
		ci.PainPoints = mo.PainPoints
	}
	if mo.DecisionMakers != nil {
		ci.DecisionMakers = mo.DecisionMakers
	}
	if mo.Competitors != nil {
		ci.Competitors = mo.Competitors
	}
	return ci
}

func buildCompanyInput(name, website, siteText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COMPANY NAME: %s\n", name)
	if website != "" {
		fmt.Fprintf(&b, "WEBSITE: %s\n", website)
	}
	if siteText != "" {
		fmt.Fprintf(&b, "\nWEBSITE TEXT (truncated):\n%s\n", siteText)
	} else {
		b.WriteString("\nWEBSITE TEXT: (none available)\n")
	}
	return b.String()
}

func (p *CompanyProfiler) warn(msg string, err error) {
	if p.log != nil {
		p.log.Warnw(msg, "err", err)
	}
}
