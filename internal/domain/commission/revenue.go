package commission

import "github.com/shopspring/decimal"

// SubAgentDirect is a sub-agent's own direct commission total.
type SubAgentDirect struct {
	AgentID uint
	Name    string
	Direct  decimal.Decimal
}

type SubAgentRevenue struct {
	AgentID        uint            `json:"agent_id"`
	Name           string          `json:"name"`
	Earnings       decimal.Decimal `json:"earnings"`
	ShareForParent decimal.Decimal `json:"share_for_parent"`
}

type Revenue struct {
	Direct        decimal.Decimal   `json:"direct_revenue"`
	SubAgentTotal decimal.Decimal   `json:"sub_agent_revenue"`
	Total         decimal.Decimal   `json:"total_revenue"`
	SubAgents     []SubAgentRevenue `json:"sub_agents"`
}

// Cascade adds to an agent's direct revenue its share of each immediate
// sub-agent's direct revenue. Deeper descendants do not contribute.
func Cascade(direct decimal.Decimal, subAgentRate decimal.NullDecimal, subs []SubAgentDirect) Revenue {
	rev := Revenue{
		Direct:        direct,
		SubAgentTotal: decimal.Zero,
		SubAgents:     make([]SubAgentRevenue, 0, len(subs)),
	}

	for _, s := range subs {
		share := Share(s.Direct, subAgentRate)
		rev.SubAgentTotal = rev.SubAgentTotal.Add(share)
		rev.SubAgents = append(rev.SubAgents, SubAgentRevenue{
			AgentID:        s.AgentID,
			Name:           s.Name,
			Earnings:       s.Direct,
			ShareForParent: share,
		})
	}

	rev.Total = rev.Direct.Add(rev.SubAgentTotal)
	return rev
}
