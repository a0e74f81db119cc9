package core

// Confirmer asks the user yes/no questions and shows notices.
type Confirmer interface {
	Confirm(title, message string) bool
	Notify(title, message string)
}

// AutoConfirm answers every question with Answer and drops notices. It is
// used for unattended runs.
type AutoConfirm struct {
	Answer bool
}

func (a AutoConfirm) Confirm(string, string) bool { return a.Answer }
func (a AutoConfirm) Notify(string, string)       {}

// RegistryFlag reads and writes the machine-wide DLL redirection flag.
type RegistryFlag interface {
	Get() (uint32, error)
	Set(v uint32) error
}

// Questions and notices shown during install and uninstall
const (
	titleEnableRedirect  = "Enable DLL redirection?"
	msgEnableRedirect    = "DotLocal DLL redirection is not enabled. This is required for the selected install target.\n\nWould you like to enable it?"
	titleRestartRequired = "DLL redirection enabled"
	msgRestartRequired   = "Restart your computer to apply the changes."

	titleAutoUpdate        = "Change auto-update setting?"
	msgAutoUpdate          = "To prevent accidental updates that could break the mod, would you like to change Steam's auto-update setting for this game to 'Only update this game when I launch it'?\n\nA backup of your original setting will be made."
	titleAutoUpdateChanged = "Auto-update setting changed"
	msgAutoUpdateChanged   = "Steam's auto-update setting for this game has been changed."

	titleRestoreAutoUpdate = "Restore auto-update setting?"
	msgRestoreAutoUpdate   = "Would you like to restore your original Steam auto-update setting for this game?"
	titleAutoUpdateRestore = "Setting restored"
	msgAutoUpdateRestore   = "Your original auto-update setting has been restored."

	titleRemoveData = "Remove mod data?"
	msgRemoveData   = "Do you also want to delete the mod's data folder (config, caches and downloaded translations)?"
)
