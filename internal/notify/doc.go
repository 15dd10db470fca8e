// Package notify announces items that became available.
//
// A Dispatcher calls each registered Notifier in order. Delivery failures are
// wrapped in *DeliveryError, logged and counted, and never abort the run or
// undo the recorded state: the transition is still saved, so a failed
// notification is not retried on the next run.
//
// Notifiers:
//
//   - Console prints "Book '<title>' is available. Go get it now!"
//   - Webhook triggers an IFTTT Maker event with value1..value3, where value3
//     links to the item's catalogue page.
package notify
