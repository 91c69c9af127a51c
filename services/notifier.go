// services/notifier.go
package services

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

// Notifier sends customer-facing messages through Twilio and logs every
// attempt. Delivery failures are recorded, never returned: no business
// operation may fail because a notification did.
type Notifier struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotifier(db *gorm.DB) *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &Notifier{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// Send delivers a message to the given phone number, preferring WhatsApp
// for E.164 numbers, and writes a ReminderLog row with the outcome.
func (n *Notifier) Send(kind, email, phone, message string) {
	if phone == "" {
		log.Printf("Notification %s for %s skipped: no phone number", kind, email)
		return
	}

	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := n.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send %s to %s: %v", kind, phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("%s sent to %s, SID: %s", kind, phone, *resp.Sid)
	} else {
		log.Printf("%s sent to %s, but no SID returned", kind, phone)
	}

	entry := models.ReminderLog{
		CustomerEmail: email,
		Type:          kind,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}
	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log notification for %s: %v", email, err)
	}
}
