// Package email delivers transactional mail through a simple JSON mail API.
// When MAIL_API_URL is not configured the messages are logged instead, which
// keeps local setups working without a mail provider.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"legacykeeper/config"
)

var httpClient = http.Client{}

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (message *Message) Send() error {
	message.From = config.MAIL_FROM
	if config.MAIL_API_URL == "" {
		log.Printf("email (not sent, no MAIL_API_URL): to=%s subject=%q\n%s",
			message.To, message.Subject, message.Body)
		return nil
	}
	buf := bytes.Buffer{}
	json.NewEncoder(&buf).Encode(*message)
	req, err := http.NewRequest("POST", config.MAIL_API_URL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if config.MAIL_API_KEY != "" {
		req.Header.Set("Authorization", "Bearer "+config.MAIL_API_KEY)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		log.Printf("SendEmail, error: %v", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		buf.Reset()
		io.Copy(&buf, resp.Body)
		log.Printf("SendEmail error, status: %d, %s", resp.StatusCode, buf.String())
		return fmt.Errorf("status: %d", resp.StatusCode)
	}
	return nil
}

func SendInvite(to, inviterName, vaultName, token string) error {
	message := Message{
		To:      to,
		Subject: inviterName + " invited you to the vault \"" + vaultName + "\"",
		Body: inviterName + " has invited you to join the family vault \"" + vaultName + "\".\n\n" +
			"Open the link below to accept:\n" +
			config.FRONTEND_URL + "/join/" + token + "\n\n" +
			"The invitation expires in " + fmt.Sprintf("%d", config.INVITE_TTL_DAYS) + " days.",
	}
	return message.Send()
}

func SendVerification(to, token string) error {
	message := Message{
		To:      to,
		Subject: "Verify your email address",
		Body: "Welcome! Please confirm your email address by opening:\n" +
			config.FRONTEND_URL + "/verify/" + token,
	}
	return message.Send()
}

func SendPasswordReset(to, token string) error {
	message := Message{
		To:      to,
		Subject: "Reset your password",
		Body: "A password reset was requested for your account. Open the link " +
			"below to choose a new password:\n" +
			config.FRONTEND_URL + "/reset/" + token + "\n\n" +
			"If you did not request this, you can ignore this message.",
	}
	return message.Send()
}
