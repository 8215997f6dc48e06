package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// MXResolver is satisfied by net.Resolver; tests substitute a fake.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// NewNetResolver returns the system resolver.
func NewNetResolver() MXResolver {
	return net.DefaultResolver
}

// freeEmailDomains are consumer mail providers rejected for trials: demos
// are for evaluation by companies, and a work address keeps follow-up
// possible.
var freeEmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"yahoo.co.uk":    {},
	"hotmail.com":    {},
	"hotmail.co.uk":  {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"aol.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"mail.com":       {},
	"gmx.com":        {},
	"gmx.net":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"yandex.com":     {},
	"yandex.ru":      {},
	"zoho.com":       {},
}

// disposableDomains are known throwaway providers; disposablePrefixes and
// disposableSuffixes catch the naming pattern the rest of them follow.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"temp-mail.org":     {},
	"throwawaymail.com": {},
	"yopmail.com":       {},
	"getnada.com":       {},
	"trashmail.com":     {},
	"sharklasers.com":   {},
	"dispostable.com":   {},
	"maildrop.cc":       {},
}

var disposablePrefixes = []string{"temp", "tmp", "trash", "fake", "spam", "disposable", "burner"}

var disposableSuffixes = []string{"throwaway", "tempmail", "trashmail", "spam"}

type emailPolicy struct {
	resolver MXResolver
}

func newEmailPolicy(resolver MXResolver) *emailPolicy {
	return &emailPolicy{
		resolver: resolver,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check validates a normalized email address against the trial policy:
// syntactically addressable, not a free/disposable provider, and on a domain
// that actually receives mail.
func (p *emailPolicy) Check(ctx context.Context, email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: %q is not a valid address", ErrInvalidEmailDomain, email)
	}
	domain := email[at+1:]

	if _, ok := freeEmailDomains[domain]; ok {
		return fmt.Errorf("%w: %s is a personal email provider, use a work address", ErrInvalidEmailDomain, domain)
	}

	if isDisposableDomain(domain) {
		return fmt.Errorf("%w: %s looks like a disposable email provider", ErrInvalidEmailDomain, domain)
	}

	records, err := p.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return fmt.Errorf("%w: %s", ErrUnreachableDomain, domain)
		}
		// Transient resolver trouble must not turn away real prospects.
		return nil
	}

	if len(records) == 0 {
		return fmt.Errorf("%w: %s", ErrUnreachableDomain, domain)
	}

	return nil
}

func isDisposableDomain(domain string) bool {
	if _, ok := disposableDomains[domain]; ok {
		return true
	}

	label := domain
	if i := strings.Index(domain, "."); i > 0 {
		label = domain[:i]
	}

	for _, prefix := range disposablePrefixes {
		if strings.HasPrefix(label, prefix) {
			return true
		}
	}
	for _, suffix := range disposableSuffixes {
		if strings.HasSuffix(label, suffix) {
			return true
		}
	}

	return false
}
