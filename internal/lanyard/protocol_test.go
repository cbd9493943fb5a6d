package lanyard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "644313519147319297"

func TestDecode(t *testing.T) {
	msg, err := Decode([]byte(`{"op":1,"d":{"heartbeat_interval":30000}}`))
	require.NoError(t, err)
	assert.Equal(t, OpHello, msg.Op)

	every, err := msg.HeartbeatInterval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, every)
}

func TestDecode_Malformed(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[]`, `{"d":{}}`, `{"op":"x"}`} {
		_, err := Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedMessage, raw)
	}
}

func TestHeartbeatInterval_Rejects(t *testing.T) {
	tests := []string{
		`{"op":1,"d":{"heartbeat_interval":0}}`,
		`{"op":1,"d":{"heartbeat_interval":-5}}`,
		`{"op":1,"d":"x"}`,
		`{"op":0,"d":{"heartbeat_interval":10}}`,
	}
	for _, raw := range tests {
		msg, err := Decode([]byte(raw))
		require.NoError(t, err)
		_, err = msg.HeartbeatInterval()
		assert.ErrorIs(t, err, ErrMalformedMessage, raw)
	}
}

func TestPresenceFor_InitState(t *testing.T) {
	raw := `{"op":0,"t":"INIT_STATE","d":{"` + testUser + `":{"discord_status":"idle","discord_user":{"id":"` + testUser + `","username":"krex"}}}}`
	msg, err := Decode([]byte(raw))
	require.NoError(t, err)

	p, ok, err := msg.PresenceFor(testUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "idle", p.DiscordStatus)
	assert.Equal(t, "krex", p.DiscordUser.Username)

	_, ok, err = msg.PresenceFor("someone-else")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPresenceFor_InitStateNullUser(t *testing.T) {
	msg, err := Decode([]byte(`{"op":0,"t":"INIT_STATE","d":{"` + testUser + `":null}}`))
	require.NoError(t, err)

	_, ok, err := msg.PresenceFor(testUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPresenceFor_Update(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		wantOK bool
	}{
		{"matching discord user", `{"discord_status":"dnd","discord_user":{"id":"` + testUser + `"}}`, true},
		{"matching user_id only", `{"user_id":"` + testUser + `","discord_status":"dnd"}`, true},
		{"other user", `{"discord_status":"dnd","discord_user":{"id":"1"}}`, false},
		{"null", `null`, false},
		{"no owner", `{"discord_status":"dnd"}`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := Message{Op: OpEvent, Type: EventPresenceUpdate, Data: json.RawMessage(tc.data)}
			p, ok, err := msg.PresenceFor(testUser)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if ok {
				assert.Equal(t, "dnd", p.DiscordStatus)
			}
		})
	}
}

func TestPresenceFor_MalformedPayload(t *testing.T) {
	tests := []Message{
		{Op: OpEvent, Type: EventPresenceUpdate, Data: json.RawMessage(`{"discord_user":"nope"}`)},
		{Op: OpEvent, Type: EventPresenceUpdate, Data: json.RawMessage(`{"activities":{}}`)},
		{Op: OpEvent, Type: EventInitState, Data: json.RawMessage(`[1,2]`)},
		{Op: OpEvent, Type: EventInitState, Data: json.RawMessage(`{"` + testUser + `":{"discord_status":5}}`)},
	}
	for _, msg := range tests {
		_, ok, err := msg.PresenceFor(testUser)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedMessage, string(msg.Data))
	}
}

func TestPresenceFor_IgnoresOtherFrames(t *testing.T) {
	for _, msg := range []Message{
		{Op: OpHello, Data: json.RawMessage(`{"heartbeat_interval":1}`)},
		{Op: OpEvent, Type: "SOMETHING_NEW", Data: json.RawMessage(`{}`)},
	} {
		_, ok, err := msg.PresenceFor(testUser)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestOutboundFrames(t *testing.T) {
	b, err := json.Marshal(subscribeFrame(testUser))
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":2,"d":{"subscribe_to_ids":["`+testUser+`"]}}`, string(b))

	b, err = json.Marshal(heartbeatFrame())
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":3}`, string(b))
}

func TestPresence_FullPayload(t *testing.T) {
	raw := `{
		"discord_user": {"id":"1","username":"krex","avatar":"a_x","global_name":"Krex","display_name":"",
			"primary_guild":{"tag":"DLL","identity_guild_id":"9","badge":"b","identity_enabled":true}},
		"activities": [{"id":"custom","name":"Custom Status","type":4,"state":"coding"},
			{"id":"a","name":"VS Code","type":0,"details":"editing","timestamps":{"start":1700000000000},
			 "assets":{"large_image":"mp:external/abc"}}],
		"discord_status": "online",
		"active_on_discord_desktop": true,
		"listening_to_spotify": true,
		"spotify": {"track_id":"t","timestamps":{"start":1,"end":2},"song":"s","artist":"a","album_art_url":"u","album":"al"},
		"kv": {"location":"Vienna"}
	}`
	var p Presence
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "1", p.OwnerID())
	require.NotNil(t, p.DiscordUser.PrimaryGuild)
	assert.Equal(t, "DLL", p.DiscordUser.PrimaryGuild.Tag)
	require.Len(t, p.Activities, 2)
	assert.Equal(t, ActivityCustom, p.Activities[0].Type)
	require.NotNil(t, p.Activities[1].Timestamps)
	assert.Equal(t, int64(1700000000000), p.Activities[1].Timestamps.Start)
	require.NotNil(t, p.Spotify)
	assert.Equal(t, "s", p.Spotify.Song)
	assert.Equal(t, "Vienna", p.KV["location"])
}
