package mysql

const insertItinerarySQL = `
INSERT INTO itineraries
  (customer_id, name, number_of_persons, start_date, end_date, status, destinations, driver_service_requested)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const updateItinerarySQL = `
UPDATE itineraries SET
  name                     = ?,
  number_of_persons        = ?,
  start_date               = ?,
  end_date                 = ?,
  status                   = ?,
  destinations             = ?,
  driver_service_requested = ?
WHERE id = ?
`

const deleteItinerarySQL = `DELETE FROM itineraries WHERE id = ?`

const itineraryColumns = `
  id, customer_id, name, number_of_persons, start_date, end_date,
  status, destinations, driver_service_requested
`

const getItinerarySQL = `SELECT` + itineraryColumns + `FROM itineraries WHERE id = ?`

// customer_id = 0 lists everything (admin views).
const listItinerariesSQL = `SELECT` + itineraryColumns + `
FROM itineraries
WHERE (? = 0 OR customer_id = ?)
ORDER BY id
`

// -----------------------------------------------------------------------------
// SUB-ITEMS
// -----------------------------------------------------------------------------

const insertScheduleItemSQL = `
INSERT INTO schedule_items (itinerary_id, description, location, start_time, end_time)
VALUES (?, ?, ?, ?, ?)
`

const updateScheduleItemSQL = `
UPDATE schedule_items SET description = ?, location = ?, start_time = ?, end_time = ?
WHERE id = ? AND itinerary_id = ?
`

const deleteScheduleItemSQL = `DELETE FROM schedule_items WHERE id = ? AND itinerary_id = ?`

const listScheduleItemsSQL = `
SELECT id, description, location, start_time, end_time
FROM schedule_items
WHERE itinerary_id = ?
ORDER BY start_time, id
`

const insertRoomItemSQL = `
INSERT INTO room_items
  (itinerary_id, room_id, room_type, base_price, room_capacity, hotel_id, hotel_name, hotel_city, start_date, end_date, is_paid)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Room ref is denormalized: the stub catalog lives outside the database.
const roomItemColumns = `
  id, itinerary_id, room_id, room_type, base_price, room_capacity,
  hotel_id, hotel_name, hotel_city, start_date, end_date, is_paid
`

const listRoomItemsSQL = `SELECT` + roomItemColumns + `FROM room_items WHERE itinerary_id = ? ORDER BY id`

const getRoomItemSQL = `SELECT` + roomItemColumns + `FROM room_items WHERE id = ?`

const deleteRoomItemSQL = `DELETE FROM room_items WHERE id = ? AND itinerary_id = ?`

const markRoomItemPaidSQL = `UPDATE room_items SET is_paid = TRUE WHERE id = ?`

const insertRideSQL = `
INSERT INTO ride_bookings
  (itinerary_id, pickup_location, dropoff_location, pickup_date_time, status, price)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const rideColumns = `
  r.id, r.itinerary_id, i.customer_id, r.pickup_location, r.dropoff_location,
  r.pickup_date_time, r.status, r.price, r.driver_id, r.driver_name, r.is_reviewed
`

const listRidesByItinerarySQL = `SELECT` + rideColumns + `
FROM ride_bookings r JOIN itineraries i ON i.id = r.itinerary_id
WHERE r.itinerary_id = ?
ORDER BY r.pickup_date_time, r.id
`

const listRidesSQL = `SELECT` + rideColumns + `
FROM ride_bookings r JOIN itineraries i ON i.id = r.itinerary_id
ORDER BY r.id
`

const setRideStatusSQL = `UPDATE ride_bookings SET status = ? WHERE id = ? AND itinerary_id = ?`

const assignRideSQL = `UPDATE ride_bookings SET driver_id = ?, driver_name = ?, status = 'confirmed' WHERE id = ?`

const markRideReviewedSQL = `UPDATE ride_bookings SET is_reviewed = TRUE WHERE id = ?`
