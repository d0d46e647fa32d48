package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quidflow/quidflow/internal/tier"
)

// tierView is the catalog projection served to pricing pages.
type tierView struct {
	ID             tier.ID          `json:"id"`
	Name           string           `json:"name"`
	ProductLine    tier.ProductLine `json:"productLine"`
	Price          float64          `json:"price"`
	BillingPeriod  string           `json:"billingPeriod"`
	FormattedPrice string           `json:"formattedPrice"`
	AnnualSavings  float64          `json:"annualSavings"`
	TrialDays      int              `json:"trialDays"`
	Description    string           `json:"description"`
	Popular        bool             `json:"popular"`
	Features       map[tier.Feature]bool `json:"features"`
	Limits         map[tier.Limit]int64  `json:"limits"`
	NextTier       tier.ID               `json:"nextTier,omitempty"`
	UpgradeReason  string                `json:"upgradeReason"`
}

func newTierView(t tier.Tier) tierView {
	view := tierView{
		ID:             t.ID,
		Name:           t.Name,
		ProductLine:    t.ProductLine,
		Price:          t.Price,
		BillingPeriod:  t.BillingPeriod,
		FormattedPrice: tier.FormatPrice(t),
		AnnualSavings:  tier.AnnualSavings(t),
		Description:    t.Description,
		Popular:        t.Popular,
		Features:       t.Features,
		Limits:         t.Limits,
	}
	if days, err := tier.TrialDays(t.ID); err == nil {
		view.TrialDays = days
	}
	if step, err := tier.NextUpgrade(t.ID); err == nil {
		view.NextTier = step.NextTier
		view.UpgradeReason = step.Reason
	}
	return view
}

func (s *Server) ListTiers(c *gin.Context) {
	catalog := tier.InOrder()
	views := make([]tierView, 0, len(catalog))
	for _, t := range catalog {
		views = append(views, newTierView(t))
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (s *Server) GetTierByID(c *gin.Context) {
	id := tier.ID(strings.TrimSpace(c.Param("id")))
	t, err := tier.Get(id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newTierView(t)})
}
