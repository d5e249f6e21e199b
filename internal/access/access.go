// Package access decides which principals may perform which catalog
// actions. Decisions come from a casbin enforcer whose policy is generated
// from the configured read policy.
package access

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
)

//go:embed model.conf
var embeddedModel string

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

const (
	SubjectAnonymous     = "anonymous"
	SubjectAuthenticated = "authenticated"
)

var deniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "access_denied_total",
		Help: "Requests rejected by the access policy",
	},
	[]string{"resource", "action", "status"},
)

type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// NewPolicy builds the enforcer for readPolicy. Authenticated principals may
// do everything; anonymous ones may read only under the public policy.
func NewPolicy(readPolicy string) (*Policy, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load access model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	rules := [][]string{{SubjectAuthenticated, "*", "*"}}
	switch readPolicy {
	case config.ReadPolicyPublic:
		rules = append(rules,
			[]string{SubjectAnonymous, "*", string(ActionList)},
			[]string{SubjectAnonymous, "*", string(ActionRetrieve)},
		)
	case config.ReadPolicyAuthenticated:
	default:
		return nil, fmt.Errorf("unknown read policy %q", readPolicy)
	}
	for _, r := range rules {
		if _, err := e.AddPolicy(r[0], r[1], r[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", r, err)
		}
	}
	return &Policy{enforcer: e}, nil
}

func subjectOf(p httpx.Principal) string {
	if p.IsAuthenticated() {
		return SubjectAuthenticated
	}
	return SubjectAnonymous
}

func (p *Policy) Allow(principal httpx.Principal, resource string, action Action) (bool, error) {
	ok, err := p.enforcer.Enforce(subjectOf(principal), resource, string(action))
	if err != nil {
		return false, fmt.Errorf("enforce %s %s: %w", resource, action, err)
	}
	return ok, nil
}

// Require guards next with the policy. Denied anonymous callers get 401 so
// clients know to authenticate; denied authenticated callers get 403.
func (p *Policy) Require(resource string, action Action, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := httpx.PrincipalFrom(r)
		ok, err := p.Allow(principal, resource, action)
		if err != nil {
			httpx.InternalError(w, r, err)
			return
		}
		if ok {
			next(w, r)
			return
		}

		if principal.IsAuthenticated() {
			deniedTotal.WithLabelValues(resource, string(action), "403").Inc()
			httpx.Forbidden(w, r)
			return
		}
		deniedTotal.WithLabelValues(resource, string(action), "401").Inc()
		httpx.Unauthorized(w, r)
	}
}
