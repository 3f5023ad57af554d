package textclean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageDropsArtifacts(t *testing.T) {
	in := "ACME REPORT\n\nQuarterly results were\nstrong across regions.\n\n- 3 -\n© Copyright 2024 Acme, all rights reserved\n***\n"
	got := Page(in, 3)
	require.Equal(t, "Quarterly results were strong across regions.", got)
}

func TestPageKeepsMultiWordTitles(t *testing.T) {
	got := Page("ANNUAL GENERAL MEETING MINUTES\nThe meeting opened.", 1)
	require.Equal(t, "ANNUAL GENERAL MEETING MINUTES\nThe meeting opened.", got)
}

func TestPageNumberForms(t *testing.T) {
	for _, line := range []string{"7", "Page 7", "PAGE 7 OF 12", "[7]", "7."} {
		require.True(t, isPageNumber(line, 7), line)
	}
	require.False(t, isPageNumber("Page 8", 7))
	require.False(t, isPageNumber("Page 7 of many", 7))
}

func TestJoinBrokenLines(t *testing.T) {
	in := []string{"a sentence that", "continues here", "and here.", "New one.", "hyphen-", "ated"}
	got := JoinBrokenLines(in)
	require.Equal(t, []string{"a sentence that continues here and here.", "New one.", "hyphen-", "ated"}, got)
}
