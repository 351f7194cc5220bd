//go:build darwin

package singleinstance

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa

// Mirrors host_darwin.go's shim style: NSAppleEventManager's
// kAEGetURLEvent handler forwards the URL string to this exported Go
// callback, since a running macOS app receives deep links via Apple
// Events rather than a second process launch.
extern void krema_deeplink_register(void);
*/
import "C"

// macOS deep-link delivery doesn't route through the singleinstance
// relay at all: the OS delivers the URL directly to the already-running
// process via an Apple Event, independent of argv. RegisterDarwinHandler
// wires that event to queue.
func RegisterDarwinHandler(queue *DeepLinkQueue) {
	darwinQueue = queue
	C.krema_deeplink_register()
}

var darwinQueue *DeepLinkQueue

//export krema_deeplink_dispatch
func krema_deeplink_dispatch(url *C.char) {
	if darwinQueue == nil {
		return
	}
	darwinQueue.Enqueue(C.GoString(url))
}
