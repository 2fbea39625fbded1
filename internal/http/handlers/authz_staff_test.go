package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, env := doJSON(t, app, "POST", "/api/login",
		`{"email":"`+email+`","password":"`+password+`"}`, nil)
	if resp.StatusCode != 200 || !env.Success {
		t.Fatalf("login %s: status %d, message %q", email, resp.StatusCode, env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Token == "" {
		t.Fatal("no token in login response")
	}
	return data.Token
}

func TestStaffRoutesRejectAnonymous(t *testing.T) {
	app, _ := newTestApp(t)
	resp, env := doJSON(t, app, "GET", "/api/admin/dashboard", "", nil)
	if resp.StatusCode != 401 || env.Success {
		t.Fatalf("status %d, success %v", resp.StatusCode, env.Success)
	}
}

func TestStaffRoutesRejectCustomers(t *testing.T) {
	app, _ := newTestApp(t)
	token := loginToken(t, app, "thandi@harvviie.test", "Passw0rd!")

	resp, env := doJSON(t, app, "GET", "/api/admin/dashboard", "",
		map[string]string{"Authorization": "Bearer " + token})
	if resp.StatusCode != 403 || env.Success {
		t.Fatalf("status %d, success %v, message %q", resp.StatusCode, env.Success, env.Message)
	}
}

func TestStaffRoutesAllowAdminAndEditor(t *testing.T) {
	app, _ := newTestApp(t)
	for _, email := range []string{"admin@harvviie.test", "editor@harvviie.test"} {
		token := loginToken(t, app, email, "Passw0rd!")
		resp, env := doJSON(t, app, "GET", "/api/admin/dashboard", "",
			map[string]string{"Authorization": "Bearer " + token})
		if resp.StatusCode != 200 || !env.Success {
			t.Fatalf("%s: status %d, message %q", email, resp.StatusCode, env.Message)
		}
	}
}

func TestBadTokenRejected(t *testing.T) {
	app, _ := newTestApp(t)
	resp, env := doJSON(t, app, "GET", "/api/admin/orders", "",
		map[string]string{"Authorization": "Bearer deadbeef"})
	if resp.StatusCode != 401 || env.Success {
		t.Fatalf("status %d, success %v", resp.StatusCode, env.Success)
	}
}

func TestUserCartFollowsLogin(t *testing.T) {
	app, _ := newTestApp(t)

	// build a guest cart, then log in with the same session key
	hdr := map[string]string{"X-Cart-Session": "sess-merge"}
	if _, env := doJSON(t, app, "POST", "/api/cart/items",
		`{"product_id":"prd-linen-shirt","quantity":2}`, hdr); !env.Success {
		t.Fatalf("guest add failed: %q", env.Message)
	}

	_, env := doJSON(t, app, "POST", "/api/login",
		`{"email":"thandi@harvviie.test","password":"Passw0rd!"}`, hdr)
	if !env.Success {
		t.Fatalf("login failed: %q", env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}

	// the user's cart now holds the guest line
	_, env = doJSON(t, app, "GET", "/api/cart", "",
		map[string]string{"Authorization": "Bearer " + data.Token})
	var cart struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "prd-linen-shirt" || cart.Items[0].Quantity != 2 {
		t.Fatalf("guest cart did not follow login: %s", env.Data)
	}
}
