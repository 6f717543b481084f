package investigation

import "fmt"

// Ground-truth columns every domain is barred from reading. Surfacing either
// in a domain's metrics would let the domain read the answer instead of
// inferring risk from behavior. Only the risk synthesizer may touch them.
const (
	FieldFraudLabel = "fraud_label"
	FieldModelScore = "model_score"
)

// Domain names for the built-in agents.
const (
	DomainNetwork        = "network"
	DomainDevice         = "device"
	DomainLocation       = "location"
	DomainLogs           = "logs"
	DomainAuthentication = "authentication"
	DomainMerchant       = "merchant"
	DomainWeb            = "web"
	DomainRisk           = "risk"
)

// domainFields is the per-domain allow-list of raw columns. Fields listed for
// exactly one domain are exclusive to it; finding one in another domain's
// metrics is cross-domain pollution.
var domainFields = map[string][]string{
	DomainNetwork: {
		"ip_address", "ip_country", "asn", "isp", "proxy_type", "vpn_provider",
		"connection_type",
	},
	DomainDevice: {
		"device_id", "device_os", "device_model", "device_fingerprint",
		"is_emulator", "is_rooted",
	},
	DomainLocation: {
		"geo_lat", "geo_lon", "city", "country", "region", "timezone",
		"event_time",
	},
	DomainLogs: {
		"event_type", "event_time", "session_id", "log_source", "status_code",
	},
	DomainAuthentication: {
		"auth_method", "login_success", "failed_attempts", "mfa_enabled",
		"password_resets", "account_age_days",
	},
	DomainMerchant: {
		"merchant_id", "merchant_name", "merchant_category", "amount",
		"currency", "decision",
	},
	DomainWeb: {
		"user_agent", "referrer", "page_views", "session_duration",
	},
}

// fieldOwner maps exclusively-owned fields to their owning domain. Fields
// shared by two or more allow-lists (event_time) have no exclusive owner.
var fieldOwner = buildFieldOwners()

func buildFieldOwners() map[string]string {
	counts := make(map[string]int)
	owner := make(map[string]string)
	for domain, fields := range domainFields {
		for _, field := range fields {
			counts[field]++
			owner[field] = domain
		}
	}
	for field, n := range counts {
		if n > 1 {
			delete(owner, field)
		}
	}
	return owner
}

// FilterDomainFields returns the subset of a raw record the given domain may
// surface. The ground-truth fraud label and the vendor model score are
// dropped for every domain regardless of allow-list. Pure function: same
// input, same output, no hidden state.
func FilterDomainFields(domain string, record Record) Record {
	allowed := domainFields[domain]
	out := make(Record, len(allowed))
	for _, field := range allowed {
		if field == FieldFraudLabel || field == FieldModelScore {
			continue
		}
		if v, ok := record[field]; ok {
			out[field] = v
		}
	}
	return out
}

// PollutionError reports ground-truth or cross-domain leakage in a domain's
// findings. It indicates a defect in the agent, not noisy input, so callers
// must treat it as fatal rather than stripping the offending field.
type PollutionError struct {
	Domain string
	Field  string
	Owner  string // owning domain for cross-domain leaks, "" for ground truth
}

func (e *PollutionError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("domain %q leaked ground-truth field %q into metrics", e.Domain, e.Field)
	}
	return fmt.Sprintf("domain %q leaked field %q owned by domain %q into metrics", e.Domain, e.Field, e.Owner)
}

// AssertNoCrossDomainPollution verifies that a finished domain's metrics carry
// no hard-blocked ground-truth field and no field exclusively owned by another
// domain. This is a correctness gate that runs after every agent.
func AssertNoCrossDomainPollution(f *Findings, domain string) error {
	if f == nil {
		return nil
	}
	for key := range f.Metrics {
		if key == FieldFraudLabel || key == FieldModelScore {
			return &PollutionError{Domain: domain, Field: key}
		}
		if owner, exclusive := fieldOwner[key]; exclusive && owner != domain {
			return &PollutionError{Domain: domain, Field: key, Owner: owner}
		}
	}
	return nil
}
