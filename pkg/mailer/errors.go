package mailer

import "fmt"

// NotificationError wraps any failure to deliver an email. It is caught at
// the notifier boundary and redirected to the support address; it must not
// abort the state mutation that triggered the notification.
type NotificationError struct {
	Op  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed (%s): %v", e.Op, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
