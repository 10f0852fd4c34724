package mailer

// HTML templates for the transactional emails. Placeholders are substituted
// with strings.Replace before sending.

const verificationEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Verify Your Email</h2>
  <p>Hello,</p>
  <p>Thank you for signing up! Your verification code is:</p>
  <div style="text-align: center; margin: 30px 0;">
    <span style="font-size: 32px; font-weight: bold; letter-spacing: 6px; color: #4CAF50;">{verificationCode}</span>
  </div>
  <p>Enter this code on the verification page to complete your registration.</p>
  <p>This code will expire in 24 hours for security reasons.</p>
  <p>If you didn't create an account with us, please ignore this email.</p>
  <p>Best regards,<br>The Team</p>
</body>
</html>`

const welcomeEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome, {name}!</h2>
  <p>Your email has been verified and your account is now active.</p>
  <p>We're glad to have you on board.</p>
  <p>Best regards,<br>The Team</p>
</body>
</html>`

const passwordResetRequestTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Password Reset</h2>
  <p>Hello {name},</p>
  <p>We received a request to reset your password. Click the button below to proceed:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{resetURL}" style="background-color: #4CAF50; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a>
  </div>
  <p>This link will expire in 24 hours for security reasons.</p>
  <p>If you did not request a password reset, please ignore this email.</p>
  <p>Best regards,<br>The Team</p>
</body>
</html>`

const passwordResetSuccessTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Password Reset Successful</h2>
  <p>Hello,</p>
  <p>Your password has been changed successfully.</p>
  <p>If you did not perform this change, please contact our support team immediately.</p>
  <p>Best regards,<br>The Team</p>
</body>
</html>`
