package ipaccess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnuboard/goboard/service/ipaccess"
)

func TestAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		list    string
		ip      string
		allowed bool
	}{
		{
			name:    "empty list admits everyone",
			list:    "",
			ip:      "203.0.113.5",
			allowed: true,
		},
		{
			name:    "cidr list rejects outside ip",
			list:    "10.0.0.0/8",
			ip:      "203.0.113.5",
			allowed: false,
		},
		{
			name:    "cidr list admits inside ip",
			list:    "10.0.0.0/8",
			ip:      "10.20.30.40",
			allowed: true,
		},
		{
			name:    "exact entry admits only itself",
			list:    "192.168.1.10",
			ip:      "192.168.1.11",
			allowed: false,
		},
		{
			name:    "multiple lines",
			list:    "10.0.0.0/8\n192.168.1.10",
			ip:      "192.168.1.10",
			allowed: true,
		},
		{
			name:    "malformed entries are skipped",
			list:    "not-an-ip\n10.0.0.0/8",
			ip:      "10.1.1.1",
			allowed: true,
		},
		{
			name:    "only malformed entries behaves as empty",
			list:    "not-an-ip",
			ip:      "203.0.113.5",
			allowed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list := ipaccess.Parse(tc.list)
			assert.Equal(t, tc.allowed, ipaccess.Allowed(list, tc.ip))
		})
	}
}

func TestBlocked(t *testing.T) {
	testCases := []struct {
		name    string
		list    string
		ip      string
		blocked bool
	}{
		{
			name:    "listed ip is blocked",
			list:    "203.0.113.5",
			ip:      "203.0.113.5",
			blocked: true,
		},
		{
			name:    "unlisted ip passes",
			list:    "203.0.113.5",
			ip:      "203.0.113.6",
			blocked: false,
		},
		{
			name:    "cidr block",
			list:    "203.0.113.0/24",
			ip:      "203.0.113.99",
			blocked: true,
		},
		{
			name:    "empty list blocks nothing",
			list:    "",
			ip:      "203.0.113.5",
			blocked: false,
		},
		{
			name:    "unparseable caller matches nothing",
			list:    "203.0.113.0/24",
			ip:      "bogus",
			blocked: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list := ipaccess.Parse(tc.list)
			assert.Equal(t, tc.blocked, ipaccess.Blocked(list, tc.ip))
		})
	}
}
