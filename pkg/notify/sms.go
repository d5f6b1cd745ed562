package notify

import (
	"log"
)

// SMSNotifier delivers login codes. Stub transport, logs instead of
// sending.
type SMSNotifier struct {
}

func (s *SMSNotifier) NotifyCode(phone uint64, code string) error {
	log.Println("SMS CODE:", phone, code)
	return nil
}

func NewSMSNotifier() *SMSNotifier {
	return &SMSNotifier{}
}
