// Package patterns holds the static vocabulary used across the analysis
// pipeline: signal groups for intent classification, rejection vocabulary,
// and the semantic role patterns that drive structure inference.
//
// The registry is built once at process start and never mutated, so it is
// safe to share across concurrent pipeline runs without locking.
package patterns

import "regexp"

// SignalGroup is one of the three evidence categories used for
// domain-intent classification.
type SignalGroup string

const (
	SignalQuantity SignalGroup = "quantity"
	SignalTime     SignalGroup = "time"
	SignalProduct  SignalGroup = "product"
)

// SignalGroups lists all groups in a stable order.
var SignalGroups = []SignalGroup{SignalQuantity, SignalTime, SignalProduct}

// Role is a canonical semantic slot that an arbitrary source column can be
// mapped onto.
type Role string

const (
	RoleProductID    Role = "product_id"
	RoleProductName  Role = "product_name"
	RoleDate         Role = "date"
	RoleQuantitySold Role = "quantity_sold"
	RoleQuantity     Role = "quantity"
	RoleCurrentStock Role = "current_stock"
	RoleExpiry       Role = "expiry"
	RolePrice        Role = "price"
)

// Registry is the immutable pattern catalogue queried by every stage.
type Registry struct {
	signals     map[SignalGroup][]*regexp.Regexp
	rejections  []*regexp.Regexp
	price       []*regexp.Regexp
	productCols []*regexp.Regexp
	roles       map[Role][]*regexp.Regexp
	priority    []Role
}

var defaultRegistry = newRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

func newRegistry() *Registry {
	r := &Registry{
		signals: map[SignalGroup][]*regexp.Regexp{
			SignalQuantity: compileAll([]string{
				`\bquantity\b`, `\bqty\b`, `\bunits\b`, `\bstock\b`,
				`\binventory\b`, `\bsold\b`, `\bsales\b`, `\bavailable\b`,
				`\bon[_\s]?hand\b`, `\bcount\b`, `\bbalance\b`, `\bcurrent[_\s]?stock\b`,
			}),
			SignalTime: compileAll([]string{
				`\bdate\b`, `\bday\b`, `\bmonth\b`, `\byear\b`, `\bperiod\b`,
				`\binvoice[_\s]?date\b`, `\btransaction[_\s]?date\b`, `\btime\b`,
				`\btimestamp\b`, `\border[_\s]?date\b`, `\bsale[_\s]?date\b`,
				`\bbest[_\s]?before\b`, `\bexpir`,
			}),
			SignalProduct: compileAll([]string{
				`\bproduct\b`, `\bitem\b`, `\bsku\b`,
				`\bitem[_\s]?id\b`, `\bproduct[_\s]?id\b`, `\bitem[_\s]?code\b`,
				`\barticle\b`, `\bbarcode\b`, `\bupc\b`, `\bean\b`,
				`\bproduct[_\s]?name\b`, `\bitem[_\s]?name\b`,
				`\bmaterial\b`, `\bgoods\b`, `\bcommodity\b`,
			}),
		},
		rejections: compileAll([]string{
			`\bemployee\b`, `\bsalary\b`, `\bhr\b`, `\bhuman[_\s]?resource`,
			`\bpayroll\b`, `\bhire[_\s]?date\b`, `\bjob[_\s]?title\b`,
			`\bresume\b`, `\bcandidate\b`, `\bapplicant\b`,
		}),
		price: compileAll([]string{
			`\bprice\b`, `\bcost\b`, `\brevenue\b`, `\btotal\b`,
			`\bamount\b`, `\bvalue\b`, `\bmsrp\b`, `\bretail\b`,
		}),
		// Broader than the product signal group: sufficiency also accepts
		// description/code style identifier columns.
		productCols: compileAll([]string{
			`\bproduct\b`, `\bitem\b`, `\bsku\b`, `\bcode\b`,
			`\bitem[_\s]?id\b`, `\bproduct[_\s]?id\b`, `\bdescription\b`,
			`\barticle\b`, `\bbarcode\b`, `\bupc\b`, `\bean\b`,
			`\bproduct[_\s]?name\b`, `\bitem[_\s]?name\b`,
			`\bmaterial\b`, `\bgoods\b`, `\bcommodity\b`,
		}),
		roles: map[Role][]*regexp.Regexp{
			RoleProductID: compileAll([]string{
				`\bproduct[_\s]?id\b`, `\bitem[_\s]?id\b`, `\bsku\b`, `\bbarcode\b`,
				`\bupc\b`, `\bean\b`, `\barticle\b`, `\bmaterial\b`, `\bitem[_\s]?code\b`,
				`\bproduct\b`, `\bitem\b`, `\bcode\b`,
			}),
			RoleProductName: compileAll([]string{
				`\bproduct[_\s]?name\b`, `\bitem[_\s]?name\b`, `\bdescription\b`,
				`\bname\b`, `\btitle\b`,
			}),
			RoleDate: compileAll([]string{
				`\bdate\b`, `\bday\b`, `\btimestamp\b`, `\btime\b`,
				`\btransaction[_\s]?date\b`, `\bsale[_\s]?date\b`, `\border[_\s]?date\b`,
				`\bperiod\b`, `\bmonth\b`,
			}),
			RoleQuantitySold: compileAll([]string{
				`\bsold\b`, `\bsales[_\s]?qty\b`, `\bquantity[_\s]?sold\b`,
				`\bunits[_\s]?sold\b`, `\bqty[_\s]?sold\b`,
			}),
			RoleQuantity: compileAll([]string{
				`\bquantity\b`, `\bqty\b`, `\bunits\b`, `\bcount\b`,
			}),
			RoleCurrentStock: compileAll([]string{
				`\bcurrent[_\s]?stock\b`, `\bstock\b`, `\binventory\b`,
				`\bavailable\b`, `\bon[_\s]?hand\b`, `\bbalance\b`,
			}),
			RoleExpiry: compileAll([]string{
				`\bexpir`, `\bbest[_\s]?before\b`, `\bshelf[_\s]?life\b`,
				`\bdays[_\s]?to[_\s]?expir`,
			}),
			RolePrice: compileAll([]string{
				`\bprice\b`, `\bcost\b`, `\bvalue\b`, `\bamount\b`,
				`\bmsrp\b`, `\bretail\b`,
			}),
		},
		// First-match-wins binding iterates roles in this order; a column
		// consumed by an earlier role is unavailable to later ones.
		priority: []Role{
			RoleProductID, RoleDate, RoleQuantitySold, RoleQuantity,
			RoleCurrentStock, RoleExpiry, RoleProductName, RolePrice,
		},
	}
	return r
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// MatchesSignal reports whether any pattern of the given signal group
// matches the text.
func (r *Registry) MatchesSignal(group SignalGroup, text string) bool {
	return matchesAny(r.signals[group], text)
}

// MatchesRejection reports whether the text carries disqualifying
// HR/payroll vocabulary.
func (r *Registry) MatchesRejection(text string) bool {
	return matchesAny(r.rejections, text)
}

// MatchesQuantityLabel reports whether a column label looks like a
// quantity column.
func (r *Registry) MatchesQuantityLabel(label string) bool {
	return matchesAny(r.signals[SignalQuantity], label)
}

// MatchesTimeLabel reports whether a column label looks like a time column.
func (r *Registry) MatchesTimeLabel(label string) bool {
	return matchesAny(r.signals[SignalTime], label)
}

// MatchesPriceLabel reports whether a column label looks like a
// price/revenue column.
func (r *Registry) MatchesPriceLabel(label string) bool {
	return matchesAny(r.price, label)
}

// MatchesProductLabel reports whether a column label looks like a product
// identifier column in the sufficiency sense.
func (r *Registry) MatchesProductLabel(label string) bool {
	return matchesAny(r.productCols, label)
}

// MatchesRole reports whether a column label matches any pattern of the
// given role.
func (r *Registry) MatchesRole(role Role, label string) bool {
	return matchesAny(r.roles[role], label)
}

// RolePriority returns the fixed role binding order. The slice is shared;
// callers must not modify it.
func (r *Registry) RolePriority() []Role {
	return r.priority
}
