package planner

// Kind identifies which command a Command describes.
type Kind int

const (
	KindEncrypt Kind = iota
	KindDecrypt
	KindGenerateKey
	KindGenerateKeyFromPassword
	KindRotateKeys
)

// DefaultExtension is appended to encrypted files.
const DefaultExtension = ".enc"

func (k Kind) String() string {
	switch k {
	case KindEncrypt:
		return "encrypt"
	case KindDecrypt:
		return "decrypt"
	case KindGenerateKey:
		return "generate-key"
	case KindGenerateKeyFromPassword:
		return "generate-key-from-password"
	case KindRotateKeys:
		return "rotate-keys"
	default:
		return "unknown"
	}
}

// Command carries the inputs of one invocation. Which fields are read
// depends on Kind.
type Command struct {
	Kind Kind

	// Input is a single file (encrypt, decrypt, rotate-keys).
	Input string

	// Directory is a directory of files (encrypt, decrypt).
	Directory string

	// Output is the destination file, directory or key file. Rotation
	// without an output rewrites Input in place.
	Output string

	// KeyFile is the key for encrypt and decrypt.
	KeyFile string

	// OldKeyFile and NewKeyFile are the keys for rotate-keys.
	OldKeyFile string
	NewKeyFile string

	// Password and Salt (hex) feed generate-key-from-password. An empty
	// salt means one is generated.
	Password []byte
	Salt     string

	// Force allows overwriting an existing output.
	Force bool

	// Recursive descends into subdirectories in directory mode.
	Recursive bool

	// Patterns filter files in directory mode.
	Patterns []string

	// Extension is the encrypted file suffix, DefaultExtension when empty.
	Extension string

	// Gitignore adds generated key files to .gitignore.
	Gitignore bool
}

func (c Command) extension() string {
	if c.Extension == "" {
		return DefaultExtension
	}
	return c.Extension
}
