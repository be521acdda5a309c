// Package ipaccess evaluates the site's allow and block lists against a
// caller's IP. Lists come from the configuration row as newline separated
// entries; each entry is either an exact IP or a CIDR prefix.
package ipaccess

import (
	"net/netip"
	"strings"
)

// List is a parsed set of IP rules.
type List struct {
	prefixes []netip.Prefix
	exact    []netip.Addr
}

// Parse builds a List from newline separated entries. Malformed entries are
// skipped rather than failing the whole list; an operator typo must not lock
// everyone out.
func Parse(raw string) *List {
	l := &List{}
	for _, line := range strings.Split(raw, "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if prefix, err := netip.ParsePrefix(entry); err == nil {
				l.prefixes = append(l.prefixes, prefix)
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			l.exact = append(l.exact, addr)
		}
	}
	return l
}

// Empty reports whether the list has no usable rules.
func (l *List) Empty() bool {
	return len(l.prefixes) == 0 && len(l.exact) == 0
}

// Contains reports whether ip matches any rule. An unparseable ip matches
// nothing.
func (l *List) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, exact := range l.exact {
		if exact == addr {
			return true
		}
	}
	for _, prefix := range l.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Allowed applies allow-list semantics: a non-empty list admits only listed
// IPs, an empty list admits everyone.
func Allowed(allowList *List, ip string) bool {
	if allowList.Empty() {
		return true
	}
	return allowList.Contains(ip)
}

// Blocked applies block-list semantics: listed IPs are rejected.
func Blocked(blockList *List, ip string) bool {
	return blockList.Contains(ip)
}
