package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	out, err := convert(map[string]string{
		"hiveUsername":       "alice",
		"bookmarkedProjects": `["alice-solar"]`,
		"hiveAccount":        `{"name":"alice"}`,
		"theme":              "dark",
	})
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{
		"hiveUsername":       []byte(`"alice"`),
		"bookmarkedProjects": []byte(`["alice-solar"]`),
	}, out)

	_, err = convert(map[string]string{"projectDrafts": `[{`})
	require.Error(t, err)
}
