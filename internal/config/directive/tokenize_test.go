package directive

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"# comment", nil},
		{"ScheduleFile /etc/aras/schedule.conf", []string{"ScheduleFile", "/etc/aras/schedule.conf"}},
		{`name "quoted value" rest`, []string{"name", "quoted value", "rest"}},
		{"name 'single quoted' rest", []string{"name", "single quoted", "rest"}},
		{"name (paren value) rest", []string{"name", "paren value", "rest"}},
		{"  leading blanks   here", []string{"leading", "blanks", "here"}},
		{"sunday 08:00:00 news", []string{"sunday", "08:00:00", "news"}},
	}
	for _, c := range cases {
		got := Tokenize(c.line)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Tokenize(%q) = %#v, want %#v", c.line, got, c.want)
		}
	}
}
