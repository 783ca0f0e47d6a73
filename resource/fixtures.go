package resource

import "encoding/xml"

// DeviceCapability is a minimal stand-in for the 2030.5 DeviceCapability
// resource (2030.5-2018 §6.4.2), the root resource a client typically GETs
// first to discover the other function-set links a server exposes.
type DeviceCapability struct {
	XMLName  xml.Name
	PollRate *uint32  `xml:"pollRate,attr,omitempty"`
}

func (DeviceCapability) SEName() string { return "DeviceCapability" }

// EndDevice is a minimal stand-in for the 2030.5 EndDevice resource
// (2030.5-2018 §6.4.5), representing a single DER device record.
type EndDevice struct {
	XMLName  xml.Name
	LFDI     string   `xml:"lFDI,omitempty"`
	SFDI     uint64   `xml:"sFDI,omitempty"`
	Enabled  bool     `xml:"enabled,omitempty"`
}

func (EndDevice) SEName() string { return "EndDevice" }

// Time is a minimal stand-in for the 2030.5 Time resource (2030.5-2018
// §6.4.7), used to synchronize the client's global time offset.
type Time struct {
	XMLName     xml.Name
	CurrentTime int64    `xml:"currentTime"`
}

func (Time) SEName() string { return "Time" }
