package bot

import (
	"github.com/bwmarrin/discordgo"
)

// Decide if a caller may use the privileged commands.
// Pure function of the caller's standing, so the policy is trivial to
// test: the caller either appears in the configured allow list, holds a
// managing permission in the guild, or owns it
func Allowed(userid string, privileged map[string]struct{}, permissions int64, isOwner bool) bool {

	if _, ok := privileged[userid]; ok {
		return true
	}
	if isOwner {
		return true
	}
	mask := int64(discordgo.PermissionAdministrator | discordgo.PermissionManageServer | discordgo.PermissionManageChannels)
	return permissions&mask != 0
}
