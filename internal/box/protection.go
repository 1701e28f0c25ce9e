package box

import "github.com/google/uuid"

// Extension UUIDs used by PIFF (Smooth Streaming) files in place of four
// character codes.
var (
	ExtensionPSSH = uuid.MustParse("d08a4f18-10f3-4a82-b6c8-32d8aba183d3")
	ExtensionSENC = uuid.MustParse("a2394f52-5a9b-4f14-a244-6c427c648df4")
	ExtensionTENC = uuid.MustParse("8974dbce-7be7-4c51-84f9-7148f9882554")
	ExtensionTFXD = uuid.MustParse("6d1d9b05-42d5-44e6-80e2-141daff757b2")
	ExtensionTFRF = uuid.MustParse("d4807ef2-ca39-4695-8e54-26cb9e46a79f")
)

var extensions = map[uuid.UUID]string{
	ExtensionPSSH: "pssh",
	ExtensionSENC: "senc",
	ExtensionTENC: "tenc",
	ExtensionTFXD: "tfxd",
	ExtensionTFRF: "tfrf",
}

// ExtensionName returns the short name of a known extension UUID.
func ExtensionName(id uuid.UUID) (string, bool) {
	name, ok := extensions[id]
	return name, ok
}

// DRM system identifiers found in pssh boxes.
var (
	SystemWidevine  = uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed")
	SystemPlayReady = uuid.MustParse("9a04f079-9840-4286-ab92-e65be0885f95")
	SystemFairPlay  = uuid.MustParse("94ce86fb-07ff-4f43-adb8-93d2fa968ca2")
	SystemClearKey  = uuid.MustParse("1077efec-c0b2-4d02-ace3-3c1e52e2fb4b")
)

var systems = map[uuid.UUID]string{
	SystemWidevine:  "Widevine",
	SystemPlayReady: "PlayReady",
	SystemFairPlay:  "FairPlay",
	SystemClearKey:  "ClearKey",
}

// ProtectionSystemHeader is the pssh payload.
type ProtectionSystemHeader struct {
	SystemID uuid.UUID   `json:"system_id"`
	KIDs     []uuid.UUID `json:"kids,omitempty"`
	DataSize uint32      `json:"data_size"`
	Data     []byte      `json:"data"`
}

// SystemName names the DRM system, or returns the UUID text when unknown.
func (p *ProtectionSystemHeader) SystemName() string {
	if name, ok := systems[p.SystemID]; ok {
		return name
	}
	return p.SystemID.String()
}

// SampleEncryption is the senc payload. The per-sample records depend on
// the IV size declared in tenc, so they are kept undecoded.
type SampleEncryption struct {
	SampleCount uint32 `json:"sample_count"`
	Data        []byte `json:"data"`
}
