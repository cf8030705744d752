package branch

// DisplayName picks the live branch name, then the name captured when the
// record was created, then the unknown-branch placeholder.
func DisplayName(live string, denormalized string) string {
	if live != "" {
		return live
	}
	if denormalized != "" {
		return denormalized
	}
	return UnknownBranchName
}
