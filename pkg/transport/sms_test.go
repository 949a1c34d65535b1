package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSMSClient_Send(t *testing.T) {
	var to, from, body, user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			http.Error(w, "bad route", http.StatusNotFound)
			return
		}
		user, pass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		to, from, body = r.PostForm.Get("To"), r.PostForm.Get("From"), r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewSMSClient(SMSConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "tok", From: "+100"}, srv.Client())
	if err := c.Send(context.Background(), Message{To: "+84901234567", Subject: "ignored", Body: "code 123456"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if user != "AC123" || pass != "tok" {
		t.Fatalf("unexpected basic auth %q:%q", user, pass)
	}
	if to != "+84901234567" || from != "+100" || body != "code 123456" {
		t.Fatalf("unexpected form: to=%q from=%q body=%q", to, from, body)
	}
}

func TestSMSClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":21211}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewSMSClient(SMSConfig{BaseURL: srv.URL, AccountSID: "AC1", AuthToken: "t", From: "+1"}, srv.Client())
	if err := c.Send(context.Background(), Message{To: "+84", Body: "x"}); err == nil {
		t.Fatalf("expected error for 400 response")
	}
}
