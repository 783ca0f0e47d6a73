package resource

import "encoding/xml"

// Notification is the 2030.5 envelope pushed by a server to announce a
// change in a subscribed resource (2030.5-2018 §6.3). It is itself an
// SEResource parameterized over the inner resource type, per IEEE 2030.5 §3.
//
// The full Notification schema carries additional subscription-management
// fields (subscriptionURI, newResourceURI, mRID, ...); only the subset
// needed to exercise typed decode/encode in the notification router is
// modeled here.
type Notification[T SEResource] struct {
	XMLName  xml.Name `xml:"Notification"`
	Subject  string   `xml:"subject,omitempty"`
	Status   *uint32  `xml:"status,omitempty"`
	Resource T        `xml:"Resource"`
}

func (n Notification[T]) SEName() string {
	var zero T
	return "Notification<" + zero.SEName() + ">"
}
