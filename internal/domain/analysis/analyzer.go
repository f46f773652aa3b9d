package analysis

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/genedetective/genedetective/internal/domain/medical"
)

// analyzedGenes is the fixed panel every analysis reports on.
var analyzedGenes = []string{"BRCA1", "BRCA2", "APOE", "CFTR", "ACTN3", "MCM6"}

// RiskVariant is one flagged variant with its associated condition.
type RiskVariant struct {
	Gene           string  `json:"gene"`
	Variant        string  `json:"variant"`
	Condition      string  `json:"condition"`
	RiskLevel      string  `json:"riskLevel"`
	RiskPercentage float64 `json:"riskPercentage"`
}

// BeneficialTrait is a favorable variant finding.
type BeneficialTrait struct {
	Gene       string `json:"gene"`
	Variant    string `json:"variant"`
	Trait      string `json:"trait"`
	Category   string `json:"category"`
	Confidence string `json:"confidence"`
}

// Result is the full output of one analysis run.
type Result struct {
	AnalyzedGenes    []string          `json:"analyzedGenes"`
	RiskVariants     []RiskVariant     `json:"riskVariants"`
	BeneficialTraits []BeneficialTrait `json:"beneficialTraits"`
	OverallRiskScore float64           `json:"overallRiskScore"`
	AnalysisDate     time.Time         `json:"analysisDate"`
}

// Analyzer produces gene expression results from a genotype payload and
// ancestry fractions. The current implementation is a placeholder model
// keyed on ancestry thresholds; the genotype payload and history are
// accepted but not yet consulted.
type Analyzer struct {
	rand *rand.Rand
	now  func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

func (a *Analyzer) Analyze(_ json.RawMessage, ancestry medical.AncestryFractions, _ string) *Result {
	res := &Result{
		AnalyzedGenes:    analyzedGenes,
		RiskVariants:     []RiskVariant{},
		BeneficialTraits: []BeneficialTrait{},
		OverallRiskScore: a.rand.Float64() * 100,
		AnalysisDate:     a.now(),
	}

	if ancestry.European > 0.5 {
		res.RiskVariants = append(res.RiskVariants, RiskVariant{
			Gene:           "BRCA1",
			Variant:        "5382insC",
			Condition:      "Breast Cancer",
			RiskLevel:      "moderate",
			RiskPercentage: 15 + a.rand.Float64()*20,
		})
	}
	if ancestry.Asian > 0.3 {
		res.RiskVariants = append(res.RiskVariants, RiskVariant{
			Gene:           "APOE",
			Variant:        "e3/e4",
			Condition:      "Alzheimer's Disease",
			RiskLevel:      "low",
			RiskPercentage: 5 + a.rand.Float64()*15,
		})
	}

	res.BeneficialTraits = append(res.BeneficialTraits, BeneficialTrait{
		Gene:       "ACTN3",
		Variant:    "R/R",
		Trait:      "Enhanced Athletic Performance",
		Category:   "Physical Performance",
		Confidence: "high",
	})
	if ancestry.European > 0.7 {
		res.BeneficialTraits = append(res.BeneficialTraits, BeneficialTrait{
			Gene:       "MCM6",
			Variant:    "C/T",
			Trait:      "Lactose Tolerance",
			Category:   "Dietary",
			Confidence: "high",
		})
	}

	return res
}
