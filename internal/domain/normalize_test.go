package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CH Genteng (Bogor)", "ch genteng bogor"},
		{"ciawi-2001", "ciawi 2001"},
		{"  PDA   Batu\tBeulah \n", "pda batu beulah"},
		{"Bojong Murni (Ciawi, Bogor)", "bojong murni ciawi bogor"},
		{"pasar-baru//bendung", "pasar baru bendung"},
		{"", ""},
		{"()-,.!", ""},
		{"PÄSAR Baru", "päsar baru"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		" ",
		"()-,.!?",
		"---",
		"CH Kebun Raya Bogor (Paledang)",
		"Neglasari (Kota Tangerang)",
		"PDA  Genteng\t(Bogor)",
		"tegallega-1007",
		"Ümlaut – dash",
		"12.5 cm",
	}
	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}
