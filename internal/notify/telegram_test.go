package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReminderText(t *testing.T) {
	got := ReminderText("Netflix", "2025-02-13", 3)
	want := "【SubTracker 到期提醒】\n服务：Netflix\n到期日：2025-02-13\n剩余 3 天，请及时续费。"
	if got != want {
		t.Errorf("ReminderText = %q, want %q", got, want)
	}
}

func TestSend(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	client := NewTelegramClient(srv.URL, "123:abc", "42")
	if err := client.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.ChatID != "42" || gotBody.Text != "hello" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	client := NewTelegramClient(srv.URL, "123:abc", "42")
	err := client.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send should fail on API error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry the API description, got: %v", err)
	}
}

func TestSendUnconfigured(t *testing.T) {
	client := NewTelegramClient("https://api.telegram.org", "", "")
	if err := client.Send(context.Background(), "hello"); err == nil {
		t.Error("Send without token should fail")
	}
}
