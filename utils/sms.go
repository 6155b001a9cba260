package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ======================
// SMS Configuration
// ======================
var (
	atUsername = os.Getenv("AFRICAS_TALKING_USERNAME")
	atAPIKey   = os.Getenv("AFRICAS_TALKING_API_KEY")
	atSenderID = os.Getenv("AFRICAS_TALKING_SENDER_ID")

	twilioSID   = os.Getenv("TWILIO_ACCOUNT_SID")
	twilioToken = os.Getenv("TWILIO_AUTH_TOKEN")
	twilioFrom  = os.Getenv("TWILIO_PHONE_NUMBER")

	smsHTTPClient = &http.Client{Timeout: 10 * time.Second}
)

const africasTalkingURL = "https://api.africastalking.com/version1/messaging"

// SendSMS delivers a text using Africa's Talking as the primary provider and
// Twilio as the fallback. Returns an error only when every provider fails.
func SendSMS(to, message string) error {
	// 1. Try Africa's Talking (default)
	if atUsername != "" && atAPIKey != "" {
		if err := sendWithAfricasTalking(to, message); err == nil {
			fmt.Printf("✅ SMS sent to %s via Africa's Talking\n", to)
			return nil
		} else {
			fmt.Printf("❌ Africa's Talking failed (%v). Falling back to Twilio.\n", err)
		}
	} else {
		fmt.Println("⚠️ Africa's Talking credentials not configured. Skipping.")
	}

	// 2. Try Twilio (fallback)
	if twilioSID != "" && twilioToken != "" && twilioFrom != "" {
		if err := sendWithTwilio(to, message); err == nil {
			fmt.Printf("✅ SMS sent to %s via Twilio (fallback)\n", to)
			return nil
		} else {
			fmt.Printf("❌ Twilio (fallback) also failed: %v\n", err)
		}
	} else {
		fmt.Println("⚠️ Twilio credentials not configured. Cannot fall back.")
	}

	// 3. Both failed
	return fmt.Errorf("failed to send SMS to %s via all available providers", to)
}

func sendWithAfricasTalking(to, message string) error {
	data := url.Values{}
	data.Set("username", atUsername)
	data.Set("to", to)
	data.Set("message", message)
	if atSenderID != "" {
		data.Set("from", atSenderID)
	}

	req, err := http.NewRequest(http.MethodPost, africasTalkingURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("apiKey", atAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var parsed struct {
		SMSMessageData struct {
			Recipients []struct {
				Status string `json:"status"`
			} `json:"Recipients"`
		} `json:"SMSMessageData"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("unexpected response: %s", string(body))
	}

	recipients := parsed.SMSMessageData.Recipients
	if len(recipients) == 0 || (recipients[0].Status != "Success" && recipients[0].Status != "sent") {
		status := "Unknown"
		if len(recipients) > 0 {
			status = recipients[0].Status
		}
		return fmt.Errorf("africa's talking failed to send to %s. Status: %s", to, status)
	}
	return nil
}

func sendWithTwilio(to, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", twilioSID)

	data := url.Values{}
	data.Set("To", to)
	data.Set("From", twilioFrom)
	data.Set("Body", message)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(twilioSID, twilioToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
