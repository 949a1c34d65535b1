// Command transport-check sends one test message through the configured
// email or SMS transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	channel := flag.String("channel", "email", "email or sms")
	to := flag.String("to", "", "recipient address or phone number")
	timeout := flag.Duration("timeout", 15*time.Second, "send timeout")
	flag.Parse()

	if *to == "" {
		log.Fatal("-to is required")
	}

	transport.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	client := transport.NewDefaultHTTPClient()
	var sender transport.Sender
	switch *channel {
	case "email":
		if !cfg.Mail.Configured() {
			log.Println("mail credentials missing, using log sender")
		}
		sender = transport.NewEmailSender(cfg.Mail.EmailConfig, cfg.Breaker, client)
	case "sms":
		if !cfg.SMS.Configured() {
			log.Println("sms credentials missing, using log sender")
		}
		sender = transport.NewSMSSender(cfg.SMS, cfg.Breaker, client)
	default:
		log.Fatalf("unknown channel %q", *channel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	msg := transport.Message{
		To:      *to,
		Subject: "GDU Career Portal: kiểm tra kết nối",
		Body:    fmt.Sprintf("Tin nhắn kiểm tra lúc %s", time.Now().Format(time.RFC3339)),
	}
	if err := sender.Send(ctx, msg); err != nil {
		log.Fatalf("send failed: %v", err)
	}
	fmt.Printf("sent %s test message to %s\n", *channel, *to)
}
