package soap

// XML namespace URIs used by the envelope grammar.
const (
	// NsEnv11 is the SOAP 1.1 envelope namespace.
	NsEnv11 = "http://schemas.xmlsoap.org/soap/envelope/"

	// NsEnv12 is the SOAP 1.2 envelope namespace.
	NsEnv12 = "http://www.w3.org/2003/05/soap-envelope"

	// NsEnc11 is the SOAP 1.1 encoding namespace.
	NsEnc11 = "http://schemas.xmlsoap.org/soap/encoding/"

	// NsEnc12 is the SOAP 1.2 encoding namespace.
	NsEnc12 = "http://www.w3.org/2003/05/soap-encoding"

	// NsXSD is the XML Schema namespace.
	NsXSD = "http://www.w3.org/2001/XMLSchema"

	// NsXSI is the XML Schema Instance namespace.
	NsXSI = "http://www.w3.org/2001/XMLSchema-instance"
)

// Version selects the SOAP envelope grammar to emit.
type Version int

const (
	// Version11 emits SOAP 1.1 envelopes.
	Version11 Version = iota

	// Version12 emits SOAP 1.2 envelopes.
	Version12
)

// EnvelopeNamespace returns the envelope namespace URI for the version.
func (v Version) EnvelopeNamespace() string {
	if v == Version12 {
		return NsEnv12
	}
	return NsEnv11
}

// EncodingNamespace returns the encoding namespace URI for the version.
func (v Version) EncodingNamespace() string {
	if v == Version12 {
		return NsEnc12
	}
	return NsEnc11
}

func (v Version) String() string {
	if v == Version12 {
		return "SOAP 1.2"
	}
	return "SOAP 1.1"
}
