package session

// User-facing texts.
const (
	MsgLoading      = "Loading notes..."
	MsgSearching    = "Searching notes..."
	MsgEmpty        = "No notes available"
	MsgLoadFailed   = "Could not load notes."
	MsgNoMatches    = "No notes found with that title."
	MsgSearchFailed = "Error searching notes."

	MsgRequired      = "Title and content are required."
	MsgSelectFirst   = "Select a note first to delete it."
	MsgConfirmDelete = "Delete this note?"

	MsgCreated = "Note created"
	MsgUpdated = "Note updated"
	MsgDeleted = "Note deleted"

	MsgSaveFailed   = "An error occurred while saving the note."
	MsgDeleteFailed = "An error occurred while deleting the note."

	fallbackInvalid  = "Invalid request"
	fallbackNoDelete = "Could not delete"
)
