package widget

import "strconv"

// Stable element ids. Attachment is keyed on these, so repeated attach
// attempts never duplicate the trigger or the modal.
const (
	TriggerID     = "dale-ai-btn"
	ModalID       = "dale-ai-modal"
	CloseID       = "dale-ai-close"
	SuggestionsID = "dale-ai-suggestions"
	LogID         = "dale-ai-log"
	InputID       = "dale-ai-input"
	SendID        = "dale-ai-send"

	suggestionIDPrefix = "dale-ai-suggestion-"
	hiddenClass        = "hidden"
	suggestionClass    = "px-3 py-2 bg-emerald-50 text-emerald-700 rounded-xl text-sm hover:bg-emerald-100 border border-emerald-100"
)

const triggerMarkup = `<button id="` + TriggerID + `" title="Dale AI Assistant" ` +
	`class="fixed bottom-6 right-6 bg-gradient-to-r from-emerald-600 to-teal-600 text-white rounded-full w-14 h-14 shadow-2xl flex items-center justify-center text-2xl z-50">` +
	`<i class="fas fa-robot"></i></button>`

const modalMarkup = `<div id="` + ModalID + `" class="fixed inset-0 bg-black/70 hidden items-center justify-center z-50">` +
	`<div class="glass rounded-3xl shadow-2xl p-6 max-w-2xl w-full mx-6 bg-white">` +
	`<div class="flex items-center justify-between mb-4">` +
	`<h2 class="text-2xl font-bold text-emerald-700 flex items-center gap-3"><i class="fas fa-robot"></i> Dale AI Assistant</h2>` +
	`<button id="` + CloseID + `" class="text-gray-600 hover:text-gray-900"><i class="fas fa-times"></i></button>` +
	`</div>` +
	`<div id="` + SuggestionsID + `" class="flex flex-wrap gap-2 mb-3"></div>` +
	`<div id="` + LogID + `" class="space-y-3 max-h-[50vh] overflow-y-auto mb-4"></div>` +
	`<div class="flex gap-2">` +
	`<input id="` + InputID + `" class="flex-1 border border-emerald-300 rounded-xl px-3 py-2 focus:outline-none" placeholder="Ask Dale..."/>` +
	`<button id="` + SendID + `" class="px-4 py-2 bg-gradient-to-r from-emerald-600 to-teal-600 text-white rounded-xl">Send</button>` +
	`</div>` +
	`</div>` +
	`</div>`

// SuggestionID returns the id of the i-th rendered suggestion button.
func SuggestionID(i int) string {
	return suggestionIDPrefix + strconv.Itoa(i)
}
