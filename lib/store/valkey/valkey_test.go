package valkey

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/TecharoHQ/zkauth"
	"github.com/TecharoHQ/zkauth/internal"
	"github.com/TecharoHQ/zkauth/lib/store/storetest"
	"github.com/TecharoHQ/zkauth/lib/zkp"
	"github.com/TecharoHQ/zkauth/lib/zkp/zkptest"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestImpl(t *testing.T) {
	if os.Getenv("DONT_USE_NETWORK") != "" {
		t.Skip("test requires network egress")
		return
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)
	internal.JoinBridgeNetwork(t.Context())

	req := testcontainers.ContainerRequest{
		Image:      "valkey/valkey:8",
		WaitingFor: wait.ForLog("Ready to accept connections"),
	}
	valkeyC, err := testcontainers.GenericContainer(t.Context(), testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	testcontainers.CleanupContainer(t, valkeyC)
	if err != nil {
		t.Fatal(err)
	}

	containerIP, err := valkeyC.ContainerIP(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(Config{
		URL: fmt.Sprintf("redis://%s:6379/0", containerIP),
	})
	if err != nil {
		t.Fatal(err)
	}

	storetest.Common(t, Factory{}, json.RawMessage(data))

	t.Run("persisted layout", func(t *testing.T) {
		testPersistedLayout(t, containerIP)
	})
}

// testPersistedLayout checks what other services sharing the valkey instance
// see: a challenge:<identity> key holding decimal strings with a native TTL.
func testPersistedLayout(t *testing.T, containerIP string) {
	st, err := Factory{}.Build(t.Context(), json.RawMessage(fmt.Sprintf(`{"url": "redis://%s:6379/0"}`, containerIP)))
	if err != nil {
		t.Fatal(err)
	}

	e := zkp.New(st, zkp.Options{Source: zkptest.NewSource(12)})
	identity := zkptest.NewIdentity(t)

	if _, err := e.Issue(t.Context(), identity, "9"); err != nil {
		t.Fatal(err)
	}

	rdb := st.(*Store).rdb
	key := zkauth.DefaultKeyPrefix + identity

	ttl, err := rdb.TTL(t.Context(), key).Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > zkauth.DefaultChallengeTTL {
		t.Errorf("wanted a native expiry within %s, got: %s", zkauth.DefaultChallengeTTL, ttl)
	}

	raw, err := rdb.Get(t.Context(), key).Bytes()
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}

	if got["t"] != "9" || got["c"] != "12" {
		t.Errorf("wanted t=\"9\" and c=\"12\" as strings, got: %s", raw)
	}
}
