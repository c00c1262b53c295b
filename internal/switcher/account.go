package switcher

// Names of the credential files the game keeps in its live data directory.
// Together they represent the active login session.
const (
	PrimaryFile   = "login_cache"
	CompanionFile = "login_cache.crc"
)

// CredentialFiles lists every file that is captured and restored, primary first.
var CredentialFiles = []string{PrimaryFile, CompanionFile}

// DefaultProcessName is the executable name the running-game guard looks for.
const DefaultProcessName = "endfield.exe"

// TimeFormat is the layout of AccountRecord.LastBackupTime, in local time.
const TimeFormat = "2006-01-02 15:04:05"

// AccountRecord is one saved game session.
//
// ID is the public identity of the account. StorageKey names the backup
// folder holding its credential files and is allocated independently so the
// two never leak into each other.
type AccountRecord struct {
	ID             string `json:"id"`
	StorageKey     string `json:"storageKey"`
	DisplayName    string `json:"displayName"`
	Fingerprint    string `json:"fingerprint"`
	LastBackupTime string `json:"lastBackupTime"`
}

// MatchFingerprint returns the record holding fingerprint fp, or nil.
// An empty fingerprint never matches.
func MatchFingerprint(records []AccountRecord, fp string) *AccountRecord {
	if fp == "" {
		return nil
	}
	for i := range records {
		if records[i].Fingerprint == fp {
			return &records[i]
		}
	}
	return nil
}

func indexOf(records []AccountRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
