package bridge

import (
	"encoding/json"
	"fmt"
)

// InjectedShim is the script injected into every webview before first
// paint (spec §4.3). It installs `window.__krema` exposing invoke() and
// on(), backed by the host's native message-posting API
// (webkit.messageHandlers.krema on WebKit, window.chrome.webview on
// WebView2, a registered script message handler on WebKitGTK's
// UserContentManager).
const InjectedShim = `
(function () {
  if (window.__krema) return;
  const pending = new Map();
  const listeners = new Map();
  let seq = 0;

  function post(message) {
    if (window.webkit && window.webkit.messageHandlers && window.webkit.messageHandlers.krema) {
      window.webkit.messageHandlers.krema.postMessage(JSON.stringify(message));
    } else if (window.chrome && window.chrome.webview) {
      window.chrome.webview.postMessage(JSON.stringify(message));
    } else {
      console.error('krema: no native message channel available');
    }
  }

  window.__krema = {
    invoke: function (cmd, args) {
      return new Promise(function (resolve, reject) {
        const id = ++seq;
        pending.set(id, { resolve: resolve, reject: reject });
        post({ seq: id, cmd: cmd, args: args || {} });
      });
    },
    on: function (name, callback) {
      if (!listeners.has(name)) listeners.set(name, new Set());
      listeners.get(name).add(callback);
      return function unsubscribe() {
        const set = listeners.get(name);
        if (set) set.delete(callback);
      };
    },
    __resolve: function (seq, result) {
      const p = pending.get(seq);
      if (!p) return;
      pending.delete(seq);
      p.resolve(result);
    },
    __reject: function (seq, message) {
      const p = pending.get(seq);
      if (!p) return;
      pending.delete(seq);
      p.reject(new Error(message));
    },
    __dispatch: function (name, payload) {
      const set = listeners.get(name);
      if (!set) return;
      set.forEach(function (cb) { cb(payload); });
    },
  };
})();
`

// RenderResponseDelivery builds the JS expression that resolves or rejects
// the frontend promise for resp, suitable as a RenderFunc passed to New.
func RenderResponseDelivery(resp Response) string {
	if resp.Error != "" {
		return fmt.Sprintf("window.__krema && window.__krema.__reject(%d, %s);", resp.Seq, jsString(resp.Error))
	}
	payload, err := json.Marshal(resp.Result)
	if err != nil {
		// Unrepresentable value: escalate to a rejection carrying
		// SerializationError rather than emitting broken JS.
		return fmt.Sprintf("window.__krema && window.__krema.__reject(%d, %s);", resp.Seq, jsString("SerializationError: "+err.Error()))
	}
	return fmt.Sprintf("window.__krema && window.__krema.__resolve(%d, %s);", resp.Seq, payload)
}

// RenderEventDelivery builds the JS expression that dispatches a pushed
// event to every local listener registered for its name.
func RenderEventDelivery(ev EventMessage) string {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		payload = []byte("null")
	}
	return fmt.Sprintf("window.__krema && window.__krema.__dispatch(%s, %s);", jsString(ev.Name), payload)
}

func jsString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
