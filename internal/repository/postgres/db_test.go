package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "default file",
			dsn:  "",
			want: "file:fanout.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite",
		},
		{
			name: "user file",
			dsn:  "file:/var/lib/fanout/data.db",
			want: "file:/var/lib/fanout/data.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite",
		},
		{
			name: "explicit busy timeout kept",
			dsn:  "file:x.db?_pragma=busy_timeout(100)",
			want: "file:x.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)&_time_format=sqlite",
		},
		{
			name: "memory",
			dsn:  ":memory:",
			want: ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}
