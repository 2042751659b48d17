package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestAllowedByList(t *testing.T) {
	privileged := map[string]struct{}{"111": {}, "222": {}}
	assert.True(t, Allowed("111", privileged, 0, false))
	assert.False(t, Allowed("333", privileged, 0, false))
}

func TestAllowedByGuildPermissions(t *testing.T) {
	none := map[string]struct{}{}
	assert.True(t, Allowed("u", none, discordgo.PermissionAdministrator, false))
	assert.True(t, Allowed("u", none, discordgo.PermissionManageServer, false))
	assert.True(t, Allowed("u", none, discordgo.PermissionManageChannels, false))
	assert.False(t, Allowed("u", none, discordgo.PermissionSendMessages, false))
}

func TestAllowedByOwnership(t *testing.T) {
	assert.True(t, Allowed("u", map[string]struct{}{}, 0, true))
}
