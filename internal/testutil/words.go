package testutil

// TestWords returns a small dictionary that supports the chains used in tests
func TestWords() []string {
	return []string{
		"cat", "tiger", "rat", "tar", "dog", "goat", "tree", "egg",
		"rabbit", "tea", "apple", "eagle", "elephant", "tomato", "owl",
	}
}
